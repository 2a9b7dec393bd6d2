package models

import "time"

type JobStatus string

const (
	JobStatusDraft     JobStatus = "draft"
	JobStatusPublished JobStatus = "published"
	JobStatusClosed    JobStatus = "closed"
	JobStatusExpired   JobStatus = "expired"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusDraft, JobStatusPublished, JobStatusClosed, JobStatusExpired:
		return true
	}
	return false
}

type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full-time"
	EmploymentPartTime   EmploymentType = "part-time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentFreelance  EmploymentType = "freelance"
	EmploymentInternship EmploymentType = "internship"
)

func (e EmploymentType) Valid() bool {
	switch e {
	case EmploymentFullTime, EmploymentPartTime, EmploymentContract, EmploymentFreelance, EmploymentInternship:
		return true
	}
	return false
}

type ExperienceLevel string

const (
	ExperienceEntry     ExperienceLevel = "entry"
	ExperienceMid       ExperienceLevel = "mid"
	ExperienceSenior    ExperienceLevel = "senior"
	ExperienceExecutive ExperienceLevel = "executive"
)

func (e ExperienceLevel) Valid() bool {
	switch e {
	case ExperienceEntry, ExperienceMid, ExperienceSenior, ExperienceExecutive:
		return true
	}
	return false
}

type WorkMode string

const (
	WorkModeRemote WorkMode = "remote"
	WorkModeHybrid WorkMode = "hybrid"
	WorkModeOnsite WorkMode = "onsite"
)

func (w WorkMode) Valid() bool {
	switch w {
	case WorkModeRemote, WorkModeHybrid, WorkModeOnsite:
		return true
	}
	return false
}

type Job struct {
	ID                  string          `json:"id"`
	Title               string          `json:"title"`
	CompanyName         string          `json:"company_name"`
	Location            string          `json:"location"`
	WorkMode            WorkMode        `json:"work_mode"`
	Description         string          `json:"description"`
	EmploymentType      EmploymentType  `json:"employment_type"`
	ExperienceLevel     ExperienceLevel `json:"experience_level"`
	SalaryMin           *float64        `json:"salary_min"`
	SalaryMax           *float64        `json:"salary_max"`
	SalaryCurrency      string          `json:"salary_currency"`
	SalaryPeriod        *string         `json:"salary_period"`
	IsSalaryNegotiable  bool            `json:"is_salary_negotiable"`
	Category            *string         `json:"category"`
	Industry            *string         `json:"industry"`
	ApplicationDeadline *time.Time      `json:"application_deadline"`
	ExpiresAt           *time.Time      `json:"expires_at"`
	PublishedAt         *time.Time      `json:"published_at"`
	Status              JobStatus       `json:"status"`
	IsFeatured          bool            `json:"is_featured"`
	IsActive            bool            `json:"-"`
	ViewCount           int             `json:"view_count"`
	ApplicationCount    int             `json:"application_count"`
	EmployerID          string          `json:"employer_id"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// JobFilter narrows the public listing. Empty fields match everything.
type JobFilter struct {
	Category        string
	EmploymentType  EmploymentType
	ExperienceLevel ExperienceLevel
	WorkMode        WorkMode
	Location        string
	Page            int
	PageSize        int
}

type JobPage struct {
	Jobs     []*Job `json:"jobs"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	HasNext  bool   `json:"has_next"`
}

// JobInput is the body of create and update calls. Nil fields are left
// untouched on update.
type JobInput struct {
	Title               *string          `json:"title"`
	CompanyName         *string          `json:"company_name"`
	Location            *string          `json:"location"`
	WorkMode            *WorkMode        `json:"work_mode"`
	Description         *string          `json:"description"`
	EmploymentType      *EmploymentType  `json:"employment_type"`
	ExperienceLevel     *ExperienceLevel `json:"experience_level"`
	SalaryMin           *float64         `json:"salary_min"`
	SalaryMax           *float64         `json:"salary_max"`
	SalaryCurrency      *string          `json:"salary_currency"`
	SalaryPeriod        *string          `json:"salary_period"`
	IsSalaryNegotiable  *bool            `json:"is_salary_negotiable"`
	Category            *string          `json:"category"`
	Industry            *string          `json:"industry"`
	ApplicationDeadline *time.Time       `json:"application_deadline"`
	ExpiresAt           *time.Time       `json:"expires_at"`
	Status              *JobStatus       `json:"status"`
	IsFeatured          *bool            `json:"is_featured"`
}

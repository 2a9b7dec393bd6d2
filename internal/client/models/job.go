package models

import "time"

type JobStatus string

const (
	JobStatusDraft     JobStatus = "draft"
	JobStatusPublished JobStatus = "published"
	JobStatusClosed    JobStatus = "closed"
	JobStatusExpired   JobStatus = "expired"
)

type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full-time"
	EmploymentPartTime   EmploymentType = "part-time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentFreelance  EmploymentType = "freelance"
	EmploymentInternship EmploymentType = "internship"
)

type ExperienceLevel string

const (
	ExperienceEntry     ExperienceLevel = "entry"
	ExperienceMid       ExperienceLevel = "mid"
	ExperienceSenior    ExperienceLevel = "senior"
	ExperienceExecutive ExperienceLevel = "executive"
)

type WorkMode string

const (
	WorkModeRemote WorkMode = "remote"
	WorkModeHybrid WorkMode = "hybrid"
	WorkModeOnsite WorkMode = "onsite"
)

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
	ViewCount           int             `json:"view_count"`
	ApplicationCount    int             `json:"application_count"`
	EmployerID          string          `json:"employer_id"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// JobInput is the body of create and update calls. Nil fields are left
// untouched on update.
type JobInput struct {
	Title               *string          `json:"title,omitempty"`
	CompanyName         *string          `json:"company_name,omitempty"`
	Location            *string          `json:"location,omitempty"`
	WorkMode            *WorkMode        `json:"work_mode,omitempty"`
	Description         *string          `json:"description,omitempty"`
	EmploymentType      *EmploymentType  `json:"employment_type,omitempty"`
	ExperienceLevel     *ExperienceLevel `json:"experience_level,omitempty"`
	SalaryMin           *float64         `json:"salary_min,omitempty"`
	SalaryMax           *float64         `json:"salary_max,omitempty"`
	SalaryCurrency      *string          `json:"salary_currency,omitempty"`
	SalaryPeriod        *string          `json:"salary_period,omitempty"`
	IsSalaryNegotiable  *bool            `json:"is_salary_negotiable,omitempty"`
	Category            *string          `json:"category,omitempty"`
	Industry            *string          `json:"industry,omitempty"`
	ApplicationDeadline *time.Time       `json:"application_deadline,omitempty"`
	ExpiresAt           *time.Time       `json:"expires_at,omitempty"`
	Status              *JobStatus       `json:"status,omitempty"`
	IsFeatured          *bool            `json:"is_featured,omitempty"`
}

// JobFilter narrows the public listing. Zero values are not sent.
type JobFilter struct {
	Page            int
	PageSize        int
	Category        string
	EmploymentType  EmploymentType
	ExperienceLevel ExperienceLevel
	WorkMode        WorkMode
	Location        string
}

type JobPage struct {
	Jobs     []Job `json:"jobs"`
	Total    int   `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	HasNext  bool  `json:"has_next"`
}

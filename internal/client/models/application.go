package models

import "time"

type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "pending"
	ApplicationReviewing   ApplicationStatus = "reviewing"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationRejected    ApplicationStatus = "rejected"
	ApplicationAccepted    ApplicationStatus = "accepted"
	ApplicationWithdrawn   ApplicationStatus = "withdrawn"
)

type Application struct {
	ID               string            `json:"id"`
	JobID            string            `json:"job_id"`
	ApplicantID      string            `json:"applicant_id"`
	CoverLetter      *string           `json:"cover_letter"`
	HasResume        bool              `json:"has_resume"`
	PortfolioURL     *string           `json:"portfolio_url"`
	LinkedinURL      *string           `json:"linkedin_url"`
	GithubURL        *string           `json:"github_url"`
	ExpectedSalary   *float64          `json:"expected_salary"`
	AvailabilityDate *time.Time        `json:"availability_date"`
	AdditionalNotes  *string           `json:"additional_notes"`
	Status           ApplicationStatus `json:"status"`
	ReviewedAt       *time.Time        `json:"reviewed_at"`
	ReviewedBy       *string           `json:"reviewed_by"`
	ReviewNotes      *string           `json:"review_notes"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`

	// Joined columns, filled depending on the listing.
	JobTitle       *string `json:"job_title,omitempty"`
	CompanyName    *string `json:"company_name,omitempty"`
	ApplicantName  *string `json:"applicant_name,omitempty"`
	ApplicantEmail *string `json:"applicant_email,omitempty"`
}

// ApplicationInput is sent as multipart form data together with the resume.
type ApplicationInput struct {
	CoverLetter      string
	PortfolioURL     string
	LinkedinURL      string
	GithubURL        string
	AdditionalNotes  string
	ExpectedSalary   *float64
	AvailabilityDate *time.Time

	ResumeName string
	Resume     []byte
}

type ApplicationPage struct {
	Applications []Application `json:"applications"`
	Total        int           `json:"total"`
	Page         int           `json:"page"`
	PageSize     int           `json:"page_size"`
	HasNext      bool          `json:"has_next"`
}

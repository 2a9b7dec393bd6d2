package models

import "time"

type PlanName string

const (
	PlanStandard PlanName = "standard"
	PlanPremium  PlanName = "premium"
)

func (p PlanName) Valid() bool {
	return p == PlanStandard || p == PlanPremium
}

type Plan struct {
	ID          string    `json:"id"`
	PlanName    PlanName  `json:"plan_name"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency"`
	ValidFor    int       `json:"valid_for"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"-"`
	CreatedAt   time.Time `json:"-"`
}

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
	TransactionCancelled TransactionStatus = "cancelled"
)

type PaymentTransaction struct {
	ID              string
	TransactionUUID string
	UserID          string
	PlanID          string
	Amount          float64
	Status          TransactionStatus
	EsewaRefID      *string
	ProductID       *string
	ErrorMessage    *string
	CreatedAt       time.Time
	CompletedAt     *time.Time
}

type Subscription struct {
	ID            string
	UserID        string
	PlanID        string
	TransactionID string
	StartedAt     time.Time
	ExpiresAt     time.Time
	IsActive      bool
}

// PaymentInitiation is the signed eSewa form the client posts.
type PaymentInitiation struct {
	URL        string            `json:"url"`
	Parameters map[string]string `json:"parameters"`
}

package models

type Plan struct {
	ID          string   `json:"id"`
	PlanName    PlanName `json:"plan_name"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	ValidFor    int      `json:"valid_for"`
	Description *string  `json:"description"`
}

// PaymentInitiation tells the client where to post the signed form.
type PaymentInitiation struct {
	URL        string            `json:"url"`
	Parameters map[string]string `json:"parameters"`
}

package representative

import "time"

// Region is the jurisdiction a representative mandate covers.
const (
	RegionEU = "eu"
	RegionUK = "uk"
)

// RequestStatus values for the mandate lifecycle.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Request is a customer's application for authorized-representative service
// in one region.
type Request struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Region    string    `json:"region"`
	Company   string    `json:"company"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RequestForm carries a new application.
type RequestForm struct {
	Region  string `json:"region" validate:"required,oneof=eu uk"`
	Company string `json:"company" validate:"required,max=300"`
	Message string `json:"message" validate:"max=2000"`
}

// Address is the representative address a customer may print on product
// labelling once their request is approved.
type Address struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Region      string    `json:"region"`
	CompanyName string    `json:"company_name"`
	AddressLine string    `json:"address_line"`
	City        string    `json:"city"`
	PostalCode  string    `json:"postal_code"`
	Country     string    `json:"country"`
	CreatedAt   time.Time `json:"created_at"`
}

package products

import "time"

// Product is a customer-owned product undergoing compliance assessment.
// DirectiveIDs, RegulationIDs and StandardIDs mirror the link tables and are
// written atomically with the row itself.
type Product struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	Name           string    `json:"name"`
	ModelNumber    string    `json:"model_number"`
	Description    string    `json:"description"`
	ManufacturerID *int64    `json:"manufacturer_id"`
	CategoryID     *int64    `json:"category_id"`
	TypeID         *int64    `json:"type_id"`
	NotifiedBodyID *int64    `json:"notified_body_id"`
	DirectiveIDs   []int64   `json:"directive_ids"`
	RegulationIDs  []int64   `json:"regulation_ids"`
	StandardIDs    []int64   `json:"standard_ids"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Form carries create/update input.
type Form struct {
	Name           string  `json:"name" validate:"required,max=300"`
	ModelNumber    string  `json:"model_number" validate:"max=100"`
	Description    string  `json:"description" validate:"max=2000"`
	ManufacturerID *int64  `json:"manufacturer_id" validate:"omitempty,gt=0"`
	CategoryID     *int64  `json:"category_id" validate:"omitempty,gt=0"`
	TypeID         *int64  `json:"type_id" validate:"omitempty,gt=0"`
	NotifiedBodyID *int64  `json:"notified_body_id" validate:"omitempty,gt=0"`
	DirectiveIDs   []int64 `json:"directive_ids" validate:"omitempty,dive,gt=0"`
	RegulationIDs  []int64 `json:"regulation_ids" validate:"omitempty,dive,gt=0"`
	StandardIDs    []int64 `json:"standard_ids" validate:"omitempty,dive,gt=0"`
}

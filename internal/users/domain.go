package users

import "time"

// Profile is the mutable metadata of a user account. Identity lifecycle
// (creation, credentials) is owned by the auth flow; this package only reads
// and updates profile fields.
type Profile struct {
	ID                 int64     `json:"id"`
	Email              string    `json:"email"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Company            string    `json:"company"`
	PlanID             *int64    `json:"plan_id,omitempty"`
	SubscriptionStatus string    `json:"subscription_status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

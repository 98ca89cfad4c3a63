package model

import "time"

// Resource is a donation listing (food, medicine, oxygen...) owned by a user.
//
// City, State and Country are derived from Pincode by the geo lookup and are
// never taken from client input.
type Resource struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Quantity  string    `json:"qtty"`
	Pincode   string    `json:"pincode"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Country   string    `json:"country"`
	Phone     string    `json:"phone"`
	UserID    string    `json:"user"`
	CreatedAt time.Time `json:"date"`
}

// OwnedBy reports whether userID owns the resource.
func (r *Resource) OwnedBy(userID string) bool {
	return r.UserID == userID
}

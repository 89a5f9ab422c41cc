package models

// Registration lives in the registration system; this core only reads it
// for eligibility checks and display fields.

const RegistrationApproved = "approved"

type Registration struct {
	ID          int64  `db:"id" json:"id"`
	EventID     int64  `db:"event_id" json:"event_id"`
	FullName    string `db:"full_name" json:"full_name"`
	CarMake     string `db:"car_make" json:"car_make"`
	CarModel    string `db:"car_model" json:"car_model"`
	CarCategory string `db:"car_category" json:"car_category"`
	Status      string `db:"status" json:"status"`
}

func (r *Registration) IsApproved() bool {
	return r.Status == RegistrationApproved
}

package models

// RoundParticipant is one registrant's entry within one round. Run scores
// stay nil until the judges record an attempt; final_score is always the
// better of the two recorded runs and is written together with them.
type RoundParticipant struct {
	ID             int64    `db:"id" json:"id"`
	RoundID        int64    `db:"round_id" json:"round_id"`
	RegistrationID int64    `db:"registration_id" json:"registration_id"`
	Run1Score      *float64 `db:"run_1_score" json:"run_1_score,omitempty"`
	Run2Score      *float64 `db:"run_2_score" json:"run_2_score,omitempty"`
	FinalScore     float64  `db:"final_score" json:"final_score"`
	IsQualified    bool     `db:"is_qualified" json:"is_qualified"`
	Notes          string   `db:"notes" json:"notes,omitempty"`

	// Display fields joined from the registration record, never written here.
	FullName    string `db:"full_name" json:"full_name,omitempty"`
	CarMake     string `db:"car_make" json:"car_make,omitempty"`
	CarModel    string `db:"car_model" json:"car_model,omitempty"`
	CarCategory string `db:"car_category" json:"car_category,omitempty"`
}

// HasScore reports whether at least one run has been recorded.
func (p *RoundParticipant) HasScore() bool {
	return p.Run1Score != nil || p.Run2Score != nil
}

package domain

import "time"

// Patient represents a caller household's primary contact.
// Phone is unique across patients and doubles as the lookup key
// used by the telephony layer for inbound caller identification.
type Patient struct {
	ID                string    `json:"id"`
	Phone             string    `json:"phone"`
	ParentName        string    `json:"parent_name"`
	Address           string    `json:"address,omitempty"`
	PreferredLanguage string    `json:"preferred_language,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// Children is populated on reads; it is not written through
	// the patient row itself.
	Children []Child `json:"children,omitempty"`
}

// Child belongs to exactly one patient and is removed with it.
type Child struct {
	ID           string    `json:"id"`
	PatientID    string    `json:"patient_id"`
	Name         string    `json:"name"`
	Age          int       `json:"age"`
	MedicaidID   string    `json:"medicaid_id,omitempty"`
	DateOfBirth  string    `json:"date_of_birth,omitempty"` // YYYY-MM-DD
	SpecialNeeds string    `json:"special_needs,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// PatientUpdate is a sparse update; only non-nil fields are written.
type PatientUpdate struct {
	Phone             *string `json:"phone,omitempty"`
	ParentName        *string `json:"parent_name,omitempty"`
	Address           *string `json:"address,omitempty"`
	PreferredLanguage *string `json:"preferred_language,omitempty"`
	Notes             *string `json:"notes,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u PatientUpdate) IsEmpty() bool {
	return u.Phone == nil && u.ParentName == nil && u.Address == nil &&
		u.PreferredLanguage == nil && u.Notes == nil
}

// ChildUpdate is a sparse update; only non-nil fields are written.
type ChildUpdate struct {
	Name         *string `json:"name,omitempty"`
	Age          *int    `json:"age,omitempty"`
	MedicaidID   *string `json:"medicaid_id,omitempty"`
	DateOfBirth  *string `json:"date_of_birth,omitempty"`
	SpecialNeeds *string `json:"special_needs,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u ChildUpdate) IsEmpty() bool {
	return u.Name == nil && u.Age == nil && u.MedicaidID == nil &&
		u.DateOfBirth == nil && u.SpecialNeeds == nil
}

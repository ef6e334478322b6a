package domain

// Attendee is a registration on an event: a copy of the user profile taken at
// sign-up time. Later profile edits do not change it.
type Attendee struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Affiliation string `json:"affiliation"`
}

// NewAttendee returns an Attendee with the given fields.
func NewAttendee(name, email, phone, affiliation string) Attendee {
	return Attendee{
		Name:        name,
		Email:       email,
		Phone:       phone,
		Affiliation: affiliation,
	}
}

// NewAttendeeFromProfile snapshots the four profile fields.
func NewAttendeeFromProfile(u *UserProfile) Attendee {
	return NewAttendee(u.Name, u.Email, u.Phone, u.Affiliation)
}

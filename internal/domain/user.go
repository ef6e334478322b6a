package domain

// UserProfile is the identity used for sign-ups. A process creates exactly one
// and hands it to whatever needs it.
type UserProfile struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Affiliation string `json:"affiliation"`
}

// NewUserProfile returns a UserProfile with the given fields.
func NewUserProfile(name, email, phone, affiliation string) *UserProfile {
	return &UserProfile{
		Name:        name,
		Email:       email,
		Phone:       phone,
		Affiliation: affiliation,
	}
}

// SetName sets the profile name, which also becomes the host of created events.
func (u *UserProfile) SetName(name string) { u.Name = name }

// SetEmail sets the address sign-up confirmations are sent to.
func (u *UserProfile) SetEmail(email string) { u.Email = email }

// SetPhone sets the contact phone number.
func (u *UserProfile) SetPhone(phone string) { u.Phone = phone }

// SetAffiliation sets the company or school.
func (u *UserProfile) SetAffiliation(affiliation string) { u.Affiliation = affiliation }

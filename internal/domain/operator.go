package domain

// Operator is the authenticated back-office user: the gym owner or an
// admin. Login returns it and the profile screen edits it.
type Operator struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Role         string `json:"role,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
}

func (o Operator) ImageRef() string { return o.ProfileImage }

// PasswordChange is the change-password request body.
type PasswordChange struct {
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

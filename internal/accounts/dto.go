package accounts

// RegisterRequest captures the sign-up payload. Accounts stay inactive until
// the emailed confirmation link is followed.
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
}

// EmailChangeRequest starts phase one of the email change flow.
type EmailChangeRequest struct {
	NewEmail string `json:"new_email" validate:"required,email"`
}

// UpdateProfileRequest is a partial update: nil fields are untouched. The
// nested user block edits identity fields independently of the bio.
type UpdateProfileRequest struct {
	Bio  *string                   `json:"bio,omitempty" validate:"omitempty,max=1000"`
	User *UpdateProfileUserRequest `json:"user,omitempty"`
}

// UpdateProfileUserRequest carries the editable identity sub-fields.
type UpdateProfileUserRequest struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,min=1"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,min=1"`
}

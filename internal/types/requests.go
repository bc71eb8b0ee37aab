package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CreateUserRequest is the request to register an API user.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone,omitempty"`
}

// LoginRequest is the API login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// User is an API user record for responses (password hash excluded).
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginResponse carries the user and a signed token after register/login.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// StartApplyRequest is the request body for starting an auto-apply run.
type StartApplyRequest struct {
	ProfileID      string          `json:"profile_id,omitempty"`
	SearchCriteria SearchCriteria  `json:"search_criteria" validate:"required"`
	Platform       string          `json:"platform,omitempty"`
	Settings       *ApplySettings  `json:"settings,omitempty"`
	Credentials    *PlatformLogin  `json:"credentials,omitempty"`
}

// PlatformLogin carries platform credentials for the auth engine. Password
// is optional; without it login falls back to the supervised manual flow.
type PlatformLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password,omitempty"`
}

// UpdatePasswordRequest is the request to change an API user's password.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// Validate validates the CreateUserRequest using the validator.
func (r *CreateUserRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	return validator.New().Struct(r)
}

// Validate validates the StartApplyRequest. Keywords and location are the
// only mandatory search inputs.
func (r *StartApplyRequest) Validate() error {
	if err := validator.New().Struct(r); err != nil {
		return err
	}
	if r.SearchCriteria.Keywords == "" {
		return &FieldError{Field: "search_criteria.keywords", Message: "required"}
	}
	if r.SearchCriteria.Location == "" {
		return &FieldError{Field: "search_criteria.location", Message: "required"}
	}
	return nil
}

// FieldError is a single-field validation error.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return "invalid " + e.Field + ": " + e.Message
}

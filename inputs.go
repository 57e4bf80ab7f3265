package users

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

func validRolesRule(value any) error {
	roles, ok := value.([]UserRole)
	if !ok {
		return nil
	}
	for _, role := range roles {
		if !ValidRole(role) {
			return validation.NewError("validation_invalid_role", "unknown role: "+role)
		}
	}
	return nil
}

// CreateUserInput is the payload for Directory.Create.
type CreateUserInput struct {
	Email    string     `json:"email"`
	FullName string     `json:"full_name"`
	Password string     `json:"password"`
	Roles    []UserRole `json:"roles"`
	// UseHashid derives the new account's ID deterministically from the
	// email instead of generating a random UUID.
	UseHashid bool `json:"-"`
}

// Validate will run validation rules
func (i CreateUserInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&i.FullName, validation.Length(1, 200)),
		validation.Field(&i.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&i.Roles, validation.By(validRolesRule)),
	)
}

// UpdateUserInput is the payload for Directory.Update. Only supplied fields
// are persisted: nil Roles and nil IsActive leave those columns untouched.
type UpdateUserInput struct {
	FullName string     `json:"full_name"`
	Roles    []UserRole `json:"roles"`
	IsActive *bool      `json:"is_active"`
}

// Validate will run validation rules
func (i UpdateUserInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.FullName, validation.Length(1, 200)),
		validation.Field(&i.Roles, validation.By(validRolesRule)),
	)
}

func (i UpdateUserInput) isEmpty() bool {
	return i.FullName == "" && i.Roles == nil && i.IsActive == nil
}

// ChangePasswordInput is the payload for Directory.ChangePassword.
// Secrets are transient input only and are never persisted in plaintext.
type ChangePasswordInput struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// Validate will run validation rules
func (i ChangePasswordInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.OldPassword, validation.Required),
		validation.Field(&i.NewPassword, validation.Required, validation.Length(8, 100)),
	)
}

// UpdateProfileInput is the payload for Directory.UpdateProfile.
type UpdateProfileInput struct {
	FullName string `json:"full_name"`
}

// Validate will run validation rules
func (i UpdateProfileInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.FullName, validation.Required, validation.Length(1, 200)),
	)
}

package auth

import (
	"strings"

	"github.com/2beens/fitdash/internal/forms"
)

type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=128"`
}

func (f *LoginForm) Validate() error {
	f.Email = normalizeEmail(f.Email)
	return forms.Validate(f)
}

type TwoFactorForm struct {
	ChallengeID string `json:"challenge_id" validate:"required"`
	Code        string `json:"code" validate:"required,len=6,numeric"`
}

func (f *TwoFactorForm) Validate() error {
	f.Code = strings.TrimSpace(f.Code)
	return forms.Validate(f)
}

type RegisterForm struct {
	Name                 string `json:"name" validate:"required,max=100"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8,max=128"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

func (f *RegisterForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = normalizeEmail(f.Email)
	return forms.Validate(f)
}

type VerifyEmailForm struct {
	Token string `json:"token" validate:"required"`
}

func (f *VerifyEmailForm) Validate() error {
	return forms.Validate(f)
}

// EmailForm carries a single address: resend verification and forgot password.
type EmailForm struct {
	Email string `json:"email" validate:"required,email"`
}

func (f *EmailForm) Validate() error {
	f.Email = normalizeEmail(f.Email)
	return forms.Validate(f)
}

type ResetPasswordForm struct {
	Token                string `json:"token" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8,max=128"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

func (f *ResetPasswordForm) Validate() error {
	f.Email = normalizeEmail(f.Email)
	return forms.Validate(f)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package domain

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	MinPasswordLength = 8
	// bcrypt ignores input past 72 bytes
	MaxPasswordLength = 72
)

var otpPattern = regexp.MustCompile(`^[0-9]{6}$`)

var passwordRules = []validation.Rule{
	validation.Required,
	validation.Length(MinPasswordLength, 0),
	validation.By(maxBytes(MaxPasswordLength)),
}

// maxBytes bounds the encoded size; validation.Length counts runes.
func maxBytes(n int) validation.RuleFunc {
	return func(value interface{}) error {
		if s, ok := value.(string); ok && len(s) > n {
			return fmt.Errorf("the length must be no more than %d bytes", n)
		}
		return nil
	}
}

var emailRules = []validation.Rule{
	validation.Required,
	validation.Length(3, 254),
	is.Email,
}

// SignupInput is the payload of POST /auth/signup
type SignupInput struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in SignupInput) Validate() error {
	in.Email = NormalizeEmail(in.Email)
	return validationError(validation.ValidateStruct(&in,
		validation.Field(&in.Fullname, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Email, emailRules...),
		validation.Field(&in.Password, passwordRules...),
	))
}

// SigninInput is the payload of POST /auth/signin
type SigninInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in SigninInput) Validate() error {
	in.Email = NormalizeEmail(in.Email)
	return validationError(validation.ValidateStruct(&in,
		validation.Field(&in.Email, emailRules...),
		validation.Field(&in.Password, validation.Required),
	))
}

// ForgotPasswordInput is the payload of POST /auth/forgot-password
type ForgotPasswordInput struct {
	Email string `json:"email"`
}

func (in ForgotPasswordInput) Validate() error {
	in.Email = NormalizeEmail(in.Email)
	return validationError(validation.ValidateStruct(&in,
		validation.Field(&in.Email, emailRules...),
	))
}

// VerifyOTPInput is the payload of POST /auth/verify-otp
type VerifyOTPInput struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (in VerifyOTPInput) Validate() error {
	in.Email = NormalizeEmail(in.Email)
	return validationError(validation.ValidateStruct(&in,
		validation.Field(&in.Email, emailRules...),
		validation.Field(&in.OTP, validation.Required, validation.Match(otpPattern).Error("must be a 6-digit code")),
	))
}

// ResetPasswordInput is the payload of POST /auth/reset-password
type ResetPasswordInput struct {
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
	ResetToken  string `json:"reset_token"`
}

func (in ResetPasswordInput) Validate() error {
	in.Email = NormalizeEmail(in.Email)
	return validationError(validation.ValidateStruct(&in,
		validation.Field(&in.Email, emailRules...),
		validation.Field(&in.NewPassword, passwordRules...),
	))
}

// AssignRoleInput is the payload of POST /roles/assign
type AssignRoleInput struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

func (in AssignRoleInput) Validate() error {
	return validationError(validation.ValidateStruct(&in,
		validation.Field(&in.UserID, validation.Required),
		validation.Field(&in.Role, validation.Required),
	))
}

// NormalizeEmail lowercases and trims an address; emails are unique case-insensitively.
// Validate runs on the normalized form, so surrounding spaces are accepted.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validationError converts ozzo field errors into a domain validation error
// with a stable, sorted list of "field: message" entries.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return ValidationFailed([]string{err.Error()})
	}
	details := make([]string, 0, len(fieldErrs))
	for field, fe := range fieldErrs {
		if fe == nil {
			continue
		}
		details = append(details, fmt.Sprintf("%s: %s", field, fe.Error()))
	}
	sort.Strings(details)
	return ValidationFailed(details)
}

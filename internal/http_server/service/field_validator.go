// Package service
package service

import (
	"net/mail"

	"github.com/half-nothing/simple-fdr/internal/interfaces/config"
	. "github.com/half-nothing/simple-fdr/internal/interfaces/service"
)

type FieldValidator struct {
	Min, Max int
	ErrRange *ApiStatus
}

func (v *FieldValidator) CheckString(value string) *ApiStatus {
	length := len(value)
	if length > v.Max || length < v.Min {
		return v.ErrRange
	}
	return nil
}

type Validators struct {
	Username *FieldValidator
	Password *FieldValidator
	Email    *FieldValidator
}

func NewValidators(config *config.HttpServerLimit) *Validators {
	return &Validators{
		Username: &FieldValidator{Min: config.UsernameLengthMin, Max: config.UsernameLengthMax, ErrRange: &ErrUsernameLength},
		Password: &FieldValidator{Min: config.PasswordLengthMin, Max: config.PasswordLengthMax, ErrRange: &ErrPasswordLength},
		Email:    &FieldValidator{Min: config.EmailLengthMin, Max: config.EmailLengthMax, ErrRange: &ErrEmailLength},
	}
}

// CheckEmail 只接受不带显示名的裸地址
func (v *Validators) CheckEmail(email string) *ApiStatus {
	if res := v.Email.CheckString(email); res != nil {
		return res
	}
	address, err := mail.ParseAddress(email)
	if err != nil || address.Address != email {
		return &ErrEmailFormat
	}
	return nil
}

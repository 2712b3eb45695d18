package contact

import (
	"regexp"
	"strings"

	"contactbook/errs"
)

var (
	ErrInvalidName     = errs.Errorf(errs.EINVALID, "Name cannot be empty.")
	ErrInvalidPhone    = errs.Errorf(errs.EINVALID, "Phone cannot be empty.")
	ErrInvalidEmail    = errs.Errorf(errs.EINVALID, "Please enter a valid email address or leave it empty.")
	ErrIndexOutOfRange = errs.Errorf(errs.ENOTFOUND, "Please select a contact.")
	ErrContactNotFound = errs.Errorf(errs.ENOTFOUND, "Contact not found.")
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

type Contact struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Phone string `json:"phone" yaml:"phone"`
	Email string `json:"email" yaml:"email"`
}

// Normalize returns c with surrounding whitespace removed from every field.
func (c Contact) Normalize() Contact {
	return Contact{
		ID:    strings.TrimSpace(c.ID),
		Name:  strings.TrimSpace(c.Name),
		Phone: strings.TrimSpace(c.Phone),
		Email: strings.TrimSpace(c.Email),
	}
}

func (c Contact) Validate() error {
	name := strings.TrimSpace(c.Name)
	phone := strings.TrimSpace(c.Phone)
	email := strings.TrimSpace(c.Email)

	if name == "" {
		return ErrInvalidName
	}

	if phone == "" {
		return ErrInvalidPhone
	}

	if email != "" && !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

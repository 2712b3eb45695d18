package httpserver

import (
	"contactbook/contact"
)

// ContactRequest is the body of create and update requests. Presence is
// checked here; email format is left to contact.Validate.
type ContactRequest struct {
	Name  string `json:"name" validate:"required,notblank"`
	Phone string `json:"phone" validate:"required,notblank"`
	Email string `json:"email"`
}

func (r ContactRequest) ToContact() contact.Contact {
	return contact.Contact{
		Name:  r.Name,
		Phone: r.Phone,
		Email: r.Email,
	}
}

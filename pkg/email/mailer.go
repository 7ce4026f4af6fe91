package email

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// EmailSender delivers a rendered email.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// SendEmailParams represents the parameters for sending an email.
type SendEmailParams struct {
	SendTo   string `json:"send_to" validate:"required,email"`
	Subject  string `json:"subject" validate:"required,max=255"`
	BodyHTML string `json:"body_html" validate:"required"`
	Tag      string `json:"tag,omitempty" validate:"omitempty,max=1000"` // Postmark limits tags to 1000 chars
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate trims the address and subject and checks every required field.
// Failures wrap ErrInvalidParams.
func (p *SendEmailParams) Validate() error {
	p.SendTo = strings.TrimSpace(p.SendTo)
	p.Subject = strings.TrimSpace(p.Subject)
	if err := validate.Struct(p); err != nil {
		return errors.Join(ErrInvalidParams, err)
	}
	return nil
}

func validEmail(addr string) bool {
	return validate.Var(addr, "required,email") == nil
}

package templates

import (
	"strings"
	"time"

	"github.com/oksasatya/go-ddd-users-api/config"
)

type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		d.Time = t.UTC().Format("02 January 2006, 15:04")
	}
}

// WithActivationLink points the activation button at base/userID.
func WithActivationLink(base, userID string) Option {
	return func(d *EmailData) {
		if base == "" || userID == "" {
			return
		}
		d.ActivationURL = strings.TrimRight(base, "/") + "/" + userID
	}
}

// NewBaseEmailData fills the company fields from cfg, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ, name, email, recipient string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: recipient,
		Type:           typ,

		CompanyName: cfg.CompanyName,
		AppName:     cfg.AppName,

		LogoURL:    cfg.LogoURL,
		SupportURL: cfg.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewAccountCreatedData(cfg *config.Config, name, email, userID string, opts ...Option) map[string]any {
	opts = append([]Option{WithActivationLink(cfg.ActivationURL, userID)}, opts...)
	d := NewBaseEmailData(cfg, AccountCreated, name, email, email, opts...)
	return d.Map()
}

package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"strings"
	"sync"
	texttpl "text/template"
)

//go:embed *.tmpl
var FS embed.FS

const AccountCreated = "account_created"

// EmailData is the field set every template may reference.
type EmailData struct {
	Name           string
	Email          string
	RecipientEmail string
	Type           string

	CompanyName string
	AppName     string

	LogoURL       string
	SupportURL    string
	ActivationURL string

	Time string
}

// Map flattens d into the EmailJob.Data shape.
func (d EmailData) Map() map[string]any {
	return map[string]any{
		"Name":           d.Name,
		"Email":          d.Email,
		"RecipientEmail": d.RecipientEmail,
		"Type":           d.Type,
		"CompanyName":    d.CompanyName,
		"AppName":        d.AppName,
		"LogoURL":        d.LogoURL,
		"SupportURL":     d.SupportURL,
		"ActivationURL":  d.ActivationURL,
		"Time":           d.Time,
	}
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback, value any) any {
	switch x := value.(type) {
	case nil:
		return fallback
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
	}
	return value
}

var funcs = map[string]any{
	"upper":   strings.ToUpper,
	"default": defaultFn,
}

type parsed struct {
	text *texttpl.Template
	html *htmpl.Template
}

var load = sync.OnceValues(func() (parsed, error) {
	text, err := texttpl.New("").Funcs(funcs).ParseFS(FS, "*.subject.tmpl", "*.text.tmpl")
	if err != nil {
		return parsed{}, fmt.Errorf("parse text templates: %w", err)
	}
	html, err := htmpl.New("").Funcs(funcs).ParseFS(FS, "*.html.tmpl")
	if err != nil {
		return parsed{}, fmt.Errorf("parse html templates: %w", err)
	}
	return parsed{text: text, html: html}, nil
})

// Render renders <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl.
func Render(name string, data any) (subject, text, html string, err error) {
	p, err := load()
	if err != nil {
		return "", "", "", err
	}
	if subject, err = execText(p.text, name+".subject.tmpl", data); err != nil {
		return "", "", "", err
	}
	if text, err = execText(p.text, name+".text.tmpl", data); err != nil {
		return "", "", "", err
	}
	var buf bytes.Buffer
	if err = p.html.ExecuteTemplate(&buf, name+".html.tmpl", data); err != nil {
		return "", "", "", fmt.Errorf("exec %q: %w", name+".html.tmpl", err)
	}
	return strings.TrimSpace(subject), text, buf.String(), nil
}

func execText(t *texttpl.Template, file string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, file, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", file, err)
	}
	return buf.String(), nil
}

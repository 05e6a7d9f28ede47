// Package email renders the daily HTML summary and dispatches it over SMTP.
package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"mlb_today/pipeline/internal/models"
)

//go:embed templates/email.html
var templateFS embed.FS

// Composer renders the email artifact into an HTML body
type Composer struct {
	tmpl *template.Template
}

// NewComposer parses the embedded email template
func NewComposer() (*Composer, error) {
	tmpl, err := template.New("email.html").Funcs(template.FuncMap{
		"join": strings.Join,
		// leaderboard projections carry nil for absent stats; render blank
		"disp": func(v any) any {
			if v == nil {
				return ""
			}
			return v
		},
	}).ParseFS(templateFS, "templates/email.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email template: %w", err)
	}
	return &Composer{tmpl: tmpl}, nil
}

// Render produces the HTML body for the given email data
func (c *Composer) Render(data *models.EmailData) (string, error) {
	var buf bytes.Buffer
	if err := c.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}
	return buf.String(), nil
}

// Subject builds the daily subject line, e.g. "MLB Today for July 3, 2025"
func (c *Composer) Subject(now time.Time) string {
	return "MLB Today for " + now.Format("January 2, 2006")
}

// ParseRecipients converts a comma-separated address string to a list,
// trimming whitespace and dropping empty entries
func ParseRecipients(addresses string) []string {
	if addresses == "" {
		return nil
	}

	var out []string
	for _, addr := range strings.Split(addresses, ",") {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		out = append(out, addr)
	}
	return out
}

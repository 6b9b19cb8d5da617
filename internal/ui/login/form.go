// Package login collects the backend address and session cookie the
// widgets authenticate with.
package login

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/huh"
)

// Result holds the values entered in the form.
type Result struct {
	BaseURL       string
	SessionCookie string
	Locale        string
}

// NewForm builds the login form bound to r. Prefilled values in r are
// shown as defaults.
func NewForm(r *Result) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend URL").
				Description("CampusCalm address (e.g., https://campuscalm.example.com)").
				Placeholder("http://localhost:8000").
				Value(&r.BaseURL).
				Validate(ValidateURL),
			huh.NewInput().
				Title("Session cookie").
				Description("Value of the sessionid cookie after signing in on the web").
				EchoMode(huh.EchoModePassword).
				Value(&r.SessionCookie).
				Validate(ValidateRequired("Session cookie")),
			huh.NewSelect[string]().
				Title("Language").
				Options(
					huh.NewOption("Portugues", "pt-BR"),
					huh.NewOption("English", "en"),
				).
				Value(&r.Locale),
		),
	)
}

// Run shows the form in the terminal and fills r.
func Run(r *Result) error {
	if err := NewForm(r).Run(); err != nil {
		return fmt.Errorf("running login form: %w", err)
	}
	r.BaseURL = strings.TrimRight(strings.TrimSpace(r.BaseURL), "/")
	r.SessionCookie = strings.TrimSpace(r.SessionCookie)
	return nil
}

// ValidateRequired rejects blank input.
func ValidateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

// ValidateURL accepts absolute http(s) URLs only.
func ValidateURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("URL is required")
	}
	parsed, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" || parsed.Host == "" {
		return fmt.Errorf("URL must include http(s) scheme and host (e.g., https://example.com)")
	}
	return nil
}

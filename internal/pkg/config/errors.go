package config

import "fmt"

// ConfigurationError reports a missing or malformed configuration source
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration: %s: %v", e.Reason, e.Err)
	}
	return "configuration: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// TemplateError reports a template that cannot be rendered strictly
type TemplateError struct {
	Template    string
	Placeholder string
	Reason      string
}

func (e *TemplateError) Error() string {
	if e.Placeholder != "" {
		return fmt.Sprintf("template %q: %s %q", e.Template, e.Reason, e.Placeholder)
	}
	return fmt.Sprintf("template %q: %s", e.Template, e.Reason)
}

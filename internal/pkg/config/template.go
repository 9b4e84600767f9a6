package config

import "strings"

// Render substitutes the ${network} and ${stage} placeholders of tmpl
func (s *Settings) Render(tmpl string) (string, error) {
	return Substitute(tmpl, map[string]string{
		"network": s.Network,
		"stage":   s.Stage,
	})
}

// Substitute replaces $name and ${name} placeholders with values from vars.
// "$$" produces a literal "$". Any placeholder not present in vars, or a "$"
// that does not start a placeholder, is a *TemplateError.
func Substitute(tmpl string, vars map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(len(tmpl))

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c != '$' {
			b.WriteByte(c)
			continue
		}
		rest := tmpl[i+1:]
		switch {
		case strings.HasPrefix(rest, "$"):
			b.WriteByte('$')
			i++
		case strings.HasPrefix(rest, "{"):
			end := strings.IndexByte(rest, '}')
			if end < 0 {
				return "", &TemplateError{Template: tmpl, Reason: "unterminated placeholder"}
			}
			name := rest[1:end]
			if identLen(name) != len(name) || name == "" {
				return "", &TemplateError{Template: tmpl, Placeholder: name, Reason: "invalid placeholder"}
			}
			val, ok := vars[name]
			if !ok {
				return "", &TemplateError{Template: tmpl, Placeholder: name, Reason: "unknown placeholder"}
			}
			b.WriteString(val)
			i += end + 1
		default:
			n := identLen(rest)
			if n == 0 {
				return "", &TemplateError{Template: tmpl, Reason: "invalid placeholder"}
			}
			name := rest[:n]
			val, ok := vars[name]
			if !ok {
				return "", &TemplateError{Template: tmpl, Placeholder: name, Reason: "unknown placeholder"}
			}
			b.WriteString(val)
			i += n
		}
	}
	return b.String(), nil
}

// identLen returns the length of the identifier at the start of s
func identLen(s string) int {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return i
		}
	}
	return len(s)
}

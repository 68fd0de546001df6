package logging

import (
	"log/slog"
	"regexp"
	"slices"
	"strings"
)

const maskedValue = "***MASKED***"

// Substrings that mark an attribute key as a credential
var credentialFields = []string{
	"password", "passwd", "secret", "token", "api_key", "apikey",
	"authorization", "credential", "dsn",
}

// Attribute keys holding personal details extracted about people
var personalFields = []string{
	"birthdate", "birthday", "address", "phone", "email",
}

// Masker provides sensitive data masking functionality
type Masker struct {
	config   MaskingConfig
	patterns []*regexp.Regexp
}

// NewMasker creates a new masker. Invalid custom patterns are skipped.
func NewMasker(config MaskingConfig) *Masker {
	m := &Masker{
		config:   config,
		patterns: make([]*regexp.Regexp, 0),
	}

	for _, pattern := range config.Patterns {
		if re, err := regexp.Compile(pattern); err == nil {
			m.patterns = append(m.patterns, re)
		}
	}

	if config.MaskEmails {
		m.patterns = append(m.patterns, regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`))
	}

	if config.MaskPhoneNumbers {
		m.patterns = append(m.patterns, regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`))
	}

	return m
}

// MaskAttr masks sensitive data in a log attribute
func (m *Masker) MaskAttr(groups []string, attr slog.Attr) slog.Attr {
	if !m.config.Enabled {
		return attr
	}

	if m.shouldMaskField(attr.Key) {
		return slog.String(attr.Key, maskedValue)
	}

	if attr.Value.Kind() == slog.KindString {
		return slog.String(attr.Key, m.MaskString(attr.Value.String()))
	}

	return attr
}

// shouldMaskField checks if a field should be completely masked
func (m *Masker) shouldMaskField(field string) bool {
	fieldLower := strings.ToLower(field)

	for _, maskField := range m.config.Fields {
		if strings.ToLower(maskField) == fieldLower {
			return true
		}
	}

	if m.config.MaskPersonalFields && slices.Contains(personalFields, fieldLower) {
		return true
	}

	for _, sensitive := range credentialFields {
		if strings.Contains(fieldLower, sensitive) {
			return true
		}
	}

	return false
}

// MaskString masks sensitive patterns in a string
func (m *Masker) MaskString(s string) string {
	masked := s

	for _, pattern := range m.patterns {
		masked = pattern.ReplaceAllStringFunc(masked, func(match string) string {
			if len(match) <= 4 {
				return "***"
			}
			// Show first and last characters, mask the middle
			return match[:2] + strings.Repeat("*", len(match)-4) + match[len(match)-2:]
		})
	}

	return masked
}

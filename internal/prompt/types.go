package prompt

import (
	"fmt"
	"strings"
)

// Style is a named (system, template) pair controlling the tone of generated
// posts. Both texts may reference the recognized template variables.
type Style struct {
	Key         string `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description"`
	System      string `json:"system"`
	Template    string `json:"template"`
}

// Platform holds per-destination constraints applied after generation.
type Platform struct {
	Key             string   `json:"-"`
	Name            string   `json:"name"`
	MaxLength       uint     `json:"max_length"`
	Guidelines      []string `json:"guidelines,omitempty"`
	DefaultHashtags []string `json:"default_hashtags,omitempty"`
}

// UnknownStyleError reports a requested style key that is not in the library.
type UnknownStyleError struct {
	Key       string
	Available []string
}

func (e *UnknownStyleError) Error() string {
	return fmt.Sprintf("unknown style %q (available: %s)", e.Key, strings.Join(e.Available, ", "))
}

// UnknownPlatformError reports a requested platform key that is not in the
// library.
type UnknownPlatformError struct {
	Key       string
	Available []string
}

func (e *UnknownPlatformError) Error() string {
	return fmt.Sprintf("unknown platform %q (available: %s)", e.Key, strings.Join(e.Available, ", "))
}

// UnknownPlaceholderError reports a template referencing a variable outside
// the recognized set. It is raised at library load time, before any
// generation call.
type UnknownPlaceholderError struct {
	Style string
	Name  string
}

func (e *UnknownPlaceholderError) Error() string {
	return fmt.Sprintf("style %q references unknown placeholder {%s}", e.Style, e.Name)
}

// ConfigError reports an invalid style or platform definition.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return e.Reason }

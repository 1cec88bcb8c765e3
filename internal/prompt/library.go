package prompt

import (
	"fmt"
	"os"
	"sort"

	"sigs.k8s.io/yaml"
)

// Posts shorter than this cannot hold an ellipsis plus any content worth
// reading, so such a max_length is rejected at load time.
const minMaxLength = 8

// Library is the loaded style and platform configuration. It is read-only
// for the duration of a run; users edit prompts.yaml between runs.
type Library struct {
	Styles    map[string]Style    `json:"styles"`
	Platforms map[string]Platform `json:"platforms"`
	Defaults  Defaults            `json:"defaults,omitempty"`
}

type Defaults struct {
	Style    string `json:"style,omitempty"`
	Platform string `json:"platform,omitempty"`
}

// Load reads and validates a prompts.yaml. A missing file yields the
// compiled-in library so the tool works before `config init` ever ran.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Builtin()
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return parse(data, path)
}

func parse(data []byte, origin string) (*Library, error) {
	var lib Library
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("parse %s: %w", origin, err)
	}
	if err := lib.validate(); err != nil {
		return nil, err
	}
	return &lib, nil
}

// validate fills in the map keys and runs the configuration-time checks:
// placeholder names and minimum platform lengths. Bad custom templates fail
// here, before any generation call.
func (l *Library) validate() error {
	if len(l.Styles) == 0 {
		return &ConfigError{Reason: "no styles defined"}
	}
	if len(l.Platforms) == 0 {
		return &ConfigError{Reason: "no platforms defined"}
	}
	for key, st := range l.Styles {
		st.Key = key
		l.Styles[key] = st
		if err := ValidateStyle(st); err != nil {
			return err
		}
	}
	for key, p := range l.Platforms {
		p.Key = key
		l.Platforms[key] = p
		if p.MaxLength < minMaxLength {
			return &ConfigError{Reason: fmt.Sprintf("platform %q: max_length %d is below the minimum viable post size %d", key, p.MaxLength, minMaxLength)}
		}
	}
	return nil
}

func (l *Library) Style(key string) (Style, error) {
	st, ok := l.Styles[key]
	if !ok {
		return Style{}, &UnknownStyleError{Key: key, Available: l.StyleKeys()}
	}
	return st, nil
}

func (l *Library) Platform(key string) (Platform, error) {
	p, ok := l.Platforms[key]
	if !ok {
		return Platform{}, &UnknownPlatformError{Key: key, Available: l.PlatformKeys()}
	}
	return p, nil
}

func (l *Library) StyleKeys() []string {
	keys := make([]string, 0, len(l.Styles))
	for key := range l.Styles {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (l *Library) PlatformKeys() []string {
	keys := make([]string, 0, len(l.Platforms))
	for key := range l.Platforms {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// DefaultStyle returns the library's own default style key, if set.
func (l *Library) DefaultStyle() string { return l.Defaults.Style }

// DefaultPlatform returns the library's own default platform key, if set.
func (l *Library) DefaultPlatform() string { return l.Defaults.Platform }

// Package settings holds the user's generation preferences and their
// merge-with-defaults persistence.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/kernel/socialpost/internal/chat"
	"github.com/kernel/socialpost/internal/post"
	"github.com/samber/lo"
)

var (
	// ErrUnknownKey is returned by Set for keys outside Keys().
	ErrUnknownKey = errors.New("unknown settings key")
	// ErrInvalidValue is returned by Set when the value does not parse.
	ErrInvalidValue = errors.New("invalid settings value")
)

// Setting keys as they appear in the persisted object.
const (
	KeyPlatform              = "platform"
	KeyStyle                 = "style"
	KeyIncludeRecentMessages = "includeRecentMessages"
	KeyAutoGenerate          = "autoGenerate"
	KeyEnabled               = "enabled"
)

// Keys returns the known setting keys in display order.
func Keys() []string {
	return []string{KeyPlatform, KeyStyle, KeyIncludeRecentMessages, KeyAutoGenerate, KeyEnabled}
}

// Settings are the generation preferences. The zero value is not meaningful;
// start from Defaults.
type Settings struct {
	Platform              post.Platform
	Style                 post.Style
	IncludeRecentMessages int
	AutoGenerate          bool
	Enabled               bool

	// extra holds keys this build does not know, written back unchanged.
	extra map[string]json.RawMessage
}

// Defaults returns the first-run settings.
func Defaults() Settings {
	return Settings{
		Platform:              post.Facebook,
		Style:                 post.Complaint,
		IncludeRecentMessages: 3,
		AutoGenerate:          false,
		Enabled:               true,
	}
}

// Reset returns the defaults carrying the unknown keys of s.
func (s Settings) Reset() Settings {
	d := Defaults()
	d.extra = maps.Clone(s.extra)
	return d
}

// Extra returns a copy of the unknown keys carried by s.
func (s Settings) Extra() map[string]json.RawMessage {
	return maps.Clone(s.extra)
}

// Merge overlays persisted onto the defaults field by field. Keys whose value
// does not decode keep their default and are reported in invalid.
func Merge(persisted json.RawMessage) (s Settings, invalid []string, err error) {
	s = Defaults()
	if len(persisted) == 0 {
		return s, nil, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(persisted, &fields); err != nil {
		return s, nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	for key, raw := range fields {
		if !lo.Contains(Keys(), key) {
			if s.extra == nil {
				s.extra = map[string]json.RawMessage{}
			}
			s.extra[key] = raw
			continue
		}
		if err := s.decodeField(key, raw); err != nil {
			invalid = append(invalid, key)
		}
	}
	return s, invalid, nil
}

func (s *Settings) decodeField(key string, raw json.RawMessage) error {
	switch key {
	case KeyPlatform:
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		p, err := post.ParsePlatform(v)
		if err != nil {
			return err
		}
		s.Platform = p
	case KeyStyle:
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		st, err := post.ParseStyle(v)
		if err != nil {
			return err
		}
		s.Style = st
	case KeyIncludeRecentMessages:
		var v int
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		s.IncludeRecentMessages = chat.ClampLimit(v)
	case KeyAutoGenerate:
		return json.Unmarshal(raw, &s.AutoGenerate)
	case KeyEnabled:
		return json.Unmarshal(raw, &s.Enabled)
	}
	return nil
}

// Set changes one setting from its string form. includeRecentMessages is
// clamped into range.
func (s *Settings) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case KeyPlatform:
		p, err := post.ParsePlatform(value)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
		s.Platform = p
	case KeyStyle:
		st, err := post.ParseStyle(value)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
		s.Style = st
	case KeyIncludeRecentMessages:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", ErrInvalidValue, key)
		}
		s.IncludeRecentMessages = chat.ClampLimit(n)
	case KeyAutoGenerate, KeyEnabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", ErrInvalidValue, key)
		}
		if key == KeyAutoGenerate {
			s.AutoGenerate = b
		} else {
			s.Enabled = b
		}
	default:
		return fmt.Errorf("%w %q: expected one of %v", ErrUnknownKey, key, Keys())
	}
	return nil
}

// Get returns the string form of one setting.
func (s Settings) Get(key string) (string, error) {
	switch key {
	case KeyPlatform:
		return string(s.Platform), nil
	case KeyStyle:
		return string(s.Style), nil
	case KeyIncludeRecentMessages:
		return strconv.Itoa(s.IncludeRecentMessages), nil
	case KeyAutoGenerate:
		return strconv.FormatBool(s.AutoGenerate), nil
	case KeyEnabled:
		return strconv.FormatBool(s.Enabled), nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownKey, key)
}

// MarshalJSON writes known fields over the retained unknown keys.
func (s Settings) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.extra)+len(Keys()))
	for k, v := range s.extra {
		out[k] = v
	}
	out[KeyPlatform] = s.Platform
	out[KeyStyle] = s.Style
	out[KeyIncludeRecentMessages] = s.IncludeRecentMessages
	out[KeyAutoGenerate] = s.AutoGenerate
	out[KeyEnabled] = s.Enabled
	return json.Marshal(out)
}

// UnmarshalJSON merges data over the defaults.
func (s *Settings) UnmarshalJSON(data []byte) error {
	merged, _, err := Merge(data)
	if err != nil {
		return err
	}
	*s = merged
	return nil
}

// Package post defines the generated social post record and the platform and
// style registries it is built from.
package post

import (
	"fmt"
	"time"

	"github.com/kernel/socialpost/internal/chat"
	"github.com/samber/lo"
)

// Platform identifies a target social network profile.
type Platform string

const (
	Facebook  Platform = "facebook"
	Twitter   Platform = "twitter"
	Instagram Platform = "instagram"
	Threads   Platform = "threads"
)

// PlatformInfo describes how content is tailored for a platform.
type PlatformInfo struct {
	Name      string
	Icon      string
	MaxLength int
	// TagFriendly platforms get a hashtag appended after composition.
	TagFriendly bool
	// Color is the card accent used by renderers.
	Color string
}

var platforms = map[Platform]PlatformInfo{
	Facebook:  {Name: "Facebook", Icon: "📘", MaxLength: 5000, Color: "#1877F2"},
	Twitter:   {Name: "Twitter", Icon: "🐦", MaxLength: 280, TagFriendly: true, Color: "#1DA1F2"},
	Instagram: {Name: "Instagram", Icon: "📸", MaxLength: 2200, TagFriendly: true, Color: "#E4405F"},
	Threads:   {Name: "Threads", Icon: "🧵", MaxLength: 500, Color: "#101010"},
}

// Platforms returns every known platform in display order.
func Platforms() []Platform {
	return []Platform{Facebook, Twitter, Instagram, Threads}
}

// Info returns the platform metadata. ok is false for unknown platforms.
func (p Platform) Info() (PlatformInfo, bool) {
	info, ok := platforms[p]
	return info, ok
}

// Valid reports whether p is a known platform.
func (p Platform) Valid() bool {
	_, ok := platforms[p]
	return ok
}

// ParsePlatform validates a platform name.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown platform %q: expected one of %v", s, Platforms())
	}
	return p, nil
}

// Style is a mood category selecting a template pool.
type Style string

const (
	Complaint  Style = "complaint"
	Funny      Style = "funny"
	Serious    Style = "serious"
	Excited    Style = "excited"
	Sad        Style = "sad"
	Reflective Style = "reflective"
	Emotional  Style = "emotional"
	Casual     Style = "casual"
	Dramatic   Style = "dramatic"

	// Random samples one of the concrete styles at composition time.
	Random Style = "random"
)

// Styles returns the concrete styles, excluding Random.
func Styles() []Style {
	return []Style{Complaint, Funny, Serious, Excited, Sad, Reflective, Emotional, Casual, Dramatic}
}

// Valid reports whether s is a concrete style or Random.
func (s Style) Valid() bool {
	return s == Random || lo.Contains(Styles(), s)
}

// ParseStyle validates a style name.
func ParseStyle(s string) (Style, error) {
	st := Style(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown style %q: expected one of %v or %q", s, Styles(), Random)
	}
	return st, nil
}

// Metrics are cosmetic engagement counters.
type Metrics struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
	Shares   int `json:"shares"`
}

// Post is a generated social post. Posts are never modified after creation.
type Post struct {
	ID               string         `json:"id"`
	Content          string         `json:"content"`
	Platform         Platform       `json:"platform"`
	PlatformName     string         `json:"platformName"`
	PlatformIcon     string         `json:"platformIcon"`
	Style            Style          `json:"style"`
	CharacterName    string         `json:"character"`
	UserName         string         `json:"userName,omitempty"`
	TimestampDisplay string         `json:"timestamp"`
	CreatedAt        time.Time      `json:"createdAt"`
	SourceMessages   []chat.Message `json:"conversation"`
	Metrics          Metrics        `json:"metrics"`
	// Decoration is the suffix appended after length enforcement, if any.
	Decoration string `json:"decoration,omitempty"`
}

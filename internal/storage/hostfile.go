package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kernel/socialpost/pkg/util"
)

// HostSettings stores blobs inside the host application's settings file, at
// extension_settings[key]. Every other top-level and extension key in the
// file is preserved on write.
type HostSettings struct {
	Path string
	// Section is the top-level object holding per-extension blobs.
	Section string

	mu sync.Mutex
}

// NewHostSettings returns a backend over the host settings file at path.
func NewHostSettings(path, section string) *HostSettings {
	return &HostSettings{Path: path, Section: section}
}

func (h *HostSettings) Name() string { return "host" }

func (h *HostSettings) available() error {
	if h.Path == "" {
		return Unavailable{Reason: "host settings path not configured"}.err()
	}
	if _, err := os.Stat(filepath.Dir(h.Path)); err != nil {
		return Unavailable{Reason: fmt.Sprintf("host data directory %s", filepath.Dir(h.Path))}.err()
	}
	return nil
}

func (h *HostSettings) Read(_ context.Context, key string) ([]byte, error) {
	if err := h.available(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	section, err := h.readSection()
	if err != nil {
		return nil, err
	}
	raw, ok := section[key]
	if !ok {
		return nil, ErrNotFound
	}
	return raw, nil
}

func (h *HostSettings) Write(_ context.Context, key string, data []byte) error {
	if err := h.available(); err != nil {
		return err
	}
	if !json.Valid(data) {
		return fmt.Errorf("refusing to write invalid JSON under %q", key)
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	// A host file that does not parse is never overwritten.
	doc, err := h.readDoc()
	if err != nil {
		return err
	}

	section := map[string]json.RawMessage{}
	if raw, ok := doc[h.Section]; ok {
		// A corrupt section is replaced rather than blocking the write.
		_ = json.Unmarshal(raw, &section)
	}
	section[key] = json.RawMessage(data)

	encoded, err := json.Marshal(section)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", h.Section, err)
	}
	doc[h.Section] = encoded

	out, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode host settings: %w", err)
	}
	if err := util.WriteFileAtomic(h.Path, out, 0644); err != nil {
		return fmt.Errorf("failed to write host settings: %w", err)
	}
	return nil
}

func (h *HostSettings) readDoc() (map[string]json.RawMessage, error) {
	b, err := os.ReadFile(h.Path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read host settings: %w", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("host settings %s: %w", h.Path, ErrMalformed)
	}
	if doc == nil {
		doc = map[string]json.RawMessage{}
	}
	return doc, nil
}

func (h *HostSettings) readSection() (map[string]json.RawMessage, error) {
	doc, err := h.readDoc()
	if err != nil {
		return nil, err
	}
	raw, ok := doc[h.Section]
	if !ok {
		return map[string]json.RawMessage{}, nil
	}
	var section map[string]json.RawMessage
	if err := json.Unmarshal(raw, &section); err != nil {
		return nil, fmt.Errorf("host settings section %s: %w", h.Section, ErrMalformed)
	}
	return section, nil
}

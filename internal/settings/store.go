package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/kernel/socialpost/internal/storage"
	"github.com/pterm/pterm"
)

// Field is the blob field settings are stored under.
const Field = "settings"

// Store loads and saves settings in a namespace blob.
type Store struct {
	ns     *storage.Namespace
	logger *pterm.Logger
}

// NewStore returns a settings store over ns.
func NewStore(ns *storage.Namespace, logger *pterm.Logger) *Store {
	if logger == nil {
		logger = &pterm.DefaultLogger
	}
	return &Store{ns: ns, logger: logger}
}

// Load returns the persisted settings merged over the defaults. Missing,
// unreadable or unavailable data yields the defaults; Load never fails.
func (s *Store) Load(ctx context.Context) (Settings, error) {
	raw, err := s.ns.Field(ctx, Field)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		return Defaults(), nil
	case errors.Is(err, storage.ErrUnavailable):
		s.logger.Debug("settings storage unavailable, using defaults", s.logger.Args("error", err.Error()))
		return Defaults(), nil
	default:
		s.logger.Warn("could not read settings, using defaults", s.logger.Args("error", err.Error()))
		return Defaults(), nil
	}

	merged, invalid, err := Merge(raw)
	if err != nil {
		s.logger.Warn("stored settings are malformed, using defaults", s.logger.Args("error", err.Error()))
		return Defaults(), nil
	}
	if len(invalid) > 0 {
		s.logger.Warn("ignoring invalid stored settings", s.logger.Args("keys", invalid))
	}
	return merged, nil
}

// Save overwrites the persisted settings. An unavailable backend is logged
// and not reported.
func (s *Store) Save(ctx context.Context, st Settings) error {
	err := s.ns.SetField(ctx, Field, st)
	if errors.Is(err, storage.ErrUnavailable) {
		s.logger.Debug("settings storage unavailable, settings not persisted", s.logger.Args("error", err.Error()))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

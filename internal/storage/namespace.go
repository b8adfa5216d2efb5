package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Masterminds/semver/v3"
)

// SchemaVersion is written into every blob.
const SchemaVersion = "1.0.0"

const versionField = "version"

// compatibleRange accepts blobs with the same major version as
// SchemaVersion. Blobs without a version are read as current.
var compatibleRange = func() *semver.Constraints {
	c, err := semver.NewConstraint(fmt.Sprintf("^%d", semver.MustParse(SchemaVersion).Major()))
	if err != nil {
		panic(err)
	}
	return c
}()

// Namespace is the whole-blob contract: one JSON object under one key, whose
// top-level fields are read and replaced independently.
type Namespace struct {
	backend Backend
	key     string

	mu sync.Mutex
}

// NewNamespace binds key on backend.
func NewNamespace(backend Backend, key string) *Namespace {
	return &Namespace{backend: backend, key: key}
}

// Key returns the namespaced key.
func (n *Namespace) Key() string { return n.key }

// Backend returns the underlying backend.
func (n *Namespace) Backend() Backend { return n.backend }

// Field returns the raw JSON of one top-level field. It returns ErrNotFound
// when the blob or the field is absent.
func (n *Namespace) Field(ctx context.Context, name string) (json.RawMessage, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	blob, err := n.read(ctx)
	if err != nil {
		return nil, err
	}
	raw, ok := blob[name]
	if !ok {
		return nil, ErrNotFound
	}
	return raw, nil
}

// SetField replaces one top-level field and writes the blob back. A missing
// or malformed blob is replaced by a fresh one.
func (n *Namespace) SetField(ctx context.Context, name string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	blob, err := n.read(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrMalformed):
		blob = map[string]json.RawMessage{}
	default:
		return err
	}

	blob[name] = encoded
	blob[versionField] = json.RawMessage(`"` + SchemaVersion + `"`)

	out, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("failed to encode blob: %w", err)
	}
	return n.backend.Write(ctx, n.key, out)
}

func (n *Namespace) read(ctx context.Context) (map[string]json.RawMessage, error) {
	data, err := n.backend.Read(ctx, n.key)
	if err != nil {
		return nil, err
	}
	var blob map[string]json.RawMessage
	if err := json.Unmarshal(data, &blob); err != nil || blob == nil {
		return nil, fmt.Errorf("blob %q: %w", n.key, ErrMalformed)
	}
	if err := checkVersion(blob[versionField]); err != nil {
		return nil, fmt.Errorf("blob %q: %w", n.key, err)
	}
	return blob, nil
}

func checkVersion(raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ErrMalformed
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return ErrMalformed
	}
	if !compatibleRange.Check(v) {
		return fmt.Errorf("unsupported schema version %s: %w", v, ErrMalformed)
	}
	return nil
}

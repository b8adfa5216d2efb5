package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Read(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	buf := []byte(`{"a":1}`)
	require.NoError(t, m.Write(ctx, "k", buf))
	buf[2] = 'X'

	got, err := m.Read(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(got), "memory must copy on write")
}

func TestFallback(t *testing.T) {
	ctx := context.Background()
	local := NewMemory()
	f := NewFallback(nil, Unavailable{Reason: "no host"}, local)

	require.NoError(t, f.Write(ctx, "k", []byte(`1`)))
	got, err := f.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "1", string(got))

	direct, err := local.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "1", string(direct))

	none := NewFallback(nil, Unavailable{}, Unavailable{})
	_, err = none.Read(ctx, "k")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, none.Write(ctx, "k", []byte(`1`)), ErrUnavailable)
}

func TestFallback_DoesNotSkipRealErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	f := NewFallback(nil, failing{err: boom}, NewMemory())

	assert.ErrorIs(t, f.Write(ctx, "k", []byte(`1`)), boom)
}

type failing struct{ err error }

func (f failing) Name() string { return "failing" }

func (f failing) Read(context.Context, string) ([]byte, error) { return nil, f.err }

func (f failing) Write(context.Context, string, []byte) error { return f.err }

func TestHostSettings(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	host := `{"power_user":{"theme":"dark"},"extension_settings":{"other":{"on":true}}}`
	require.NoError(t, os.WriteFile(path, []byte(host), 0644))

	h := NewHostSettings(path, "extension_settings")

	_, err := h.Read(ctx, "mine")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, h.Write(ctx, "mine", []byte(`{"posts":[]}`)))

	got, err := h.Read(ctx, "mine")
	require.NoError(t, err)
	assert.JSONEq(t, `{"posts":[]}`, string(got))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.JSONEq(t, `{"theme":"dark"}`, mustJSON(t, doc["power_user"]))
	assert.JSONEq(t, `{"on":true}`, string(doc["extension_settings"]["other"]))
}

func TestHostSettings_CreatesMissingFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.json")
	h := NewHostSettings(path, "extension_settings")

	require.NoError(t, h.Write(ctx, "mine", []byte(`{}`)))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestHostSettings_Unavailable(t *testing.T) {
	ctx := context.Background()

	_, err := NewHostSettings("", "extension_settings").Read(ctx, "k")
	assert.ErrorIs(t, err, ErrUnavailable)

	h := NewHostSettings(filepath.Join(t.TempDir(), "nope", "settings.json"), "extension_settings")
	assert.ErrorIs(t, h.Write(ctx, "k", []byte(`{}`)), ErrUnavailable)
}

func TestHostSettings_MalformedIsNeverOverwritten(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{broken`), 0644))
	h := NewHostSettings(path, "extension_settings")

	_, err := h.Read(ctx, "k")
	assert.ErrorIs(t, err, ErrMalformed)
	assert.ErrorIs(t, h.Write(ctx, "k", []byte(`{}`)), ErrMalformed)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{broken`, string(b))
}

func TestSQLite(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "nested", "local.db"))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Read(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Write(ctx, "k", []byte(`{"v":1}`)))
	require.NoError(t, s.Write(ctx, "k", []byte(`{"v":2}`)))

	got, err := s.Read(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(got))
}

func TestPostgres(t *testing.T) {
	url := os.Getenv("SOCIALPOST_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("SOCIALPOST_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	s, err := OpenPostgres(ctx, url)
	require.NoError(t, err)
	defer s.Close()

	key := "test-" + t.Name()
	require.NoError(t, s.Write(ctx, key, []byte(`{"v":1}`)))
	got, err := s.Read(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(got))
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

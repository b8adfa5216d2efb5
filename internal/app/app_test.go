package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kernel/socialpost/internal/config"
	"github.com/kernel/socialpost/internal/notify"
	"github.com/kernel/socialpost/internal/pipeline"
	"github.com/kernel/socialpost/internal/storage"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.Config {
	dir := t.TempDir()
	return config.Config{
		HostRoot:        dir,
		Backend:         config.BackendAuto,
		LocalDB:         filepath.Join(dir, "local.db"),
		Namespace:       "characterSocialPostGenerator",
		MaxPosts:        20,
		AutoProbability: 0.2,
		Seed:            7,
		LogLevel:        "error",
	}
}

func writeTranscript(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	lines := `{"user_name":"Mina","character_name":"Seraphina"}
{"name":"Mina","is_user":true,"mes":"hi"}
{"name":"Seraphina","is_user":false,"mes":"lol that's wild"}
{"name":"Mina","is_user":true,"mes":"fr"}
`
	require.NoError(t, os.WriteFile(path, []byte(lines), 0644))
}

func TestNew_AutoFallsBackToLocal(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	a, err := New(ctx, cfg, WithNotifier(&notify.Recorder{}))
	require.NoError(t, err)
	defer a.Close()

	tr, path, err := a.LoadTranscript(filepath.Join(cfg.HostRoot, "chat.jsonl"), "")
	assert.Error(t, err)
	assert.Empty(t, path)
	assert.Empty(t, tr.Messages)

	// The host data directory does not exist, so posts land in sqlite.
	writeTranscript(t, filepath.Join(cfg.HostRoot, "chat.jsonl"))
	tr, _, err = a.LoadTranscript(filepath.Join(cfg.HostRoot, "chat.jsonl"), "")
	require.NoError(t, err)

	s, err := a.Settings.Load(ctx)
	require.NoError(t, err)
	_, err = a.Generator.Generate(ctx, pipeline.Request{Log: tr.Messages, Settings: s, UserName: tr.UserName})
	require.NoError(t, err)
	a.Close()

	b, err := New(ctx, cfg, WithNotifier(&notify.Recorder{}))
	require.NoError(t, err)
	defer b.Close()
	assert.Len(t, b.Feed.List(), 1)
	_, err = os.Stat(cfg.LocalDB)
	assert.NoError(t, err)
}

func TestNew_HostBackendPreferred(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	settingsPath := cfg.SettingsPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(settingsPath), 0755))
	require.NoError(t, os.WriteFile(settingsPath, []byte(`{"power_user":{}}`), 0644))

	a, err := New(ctx, cfg, WithNotifier(&notify.Recorder{}))
	require.NoError(t, err)
	defer a.Close()

	s, _ := a.Settings.Load(ctx)
	require.NoError(t, s.Set("platform", "threads"))
	require.NoError(t, a.Settings.Save(ctx, s))

	b, err := os.ReadFile(settingsPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "characterSocialPostGenerator")
	assert.Contains(t, string(b), "threads")
	assert.Contains(t, string(b), "power_user")
}

func TestNew_MemoryBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backend = config.BackendMemory
	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()
	assert.IsType(t, &storage.Memory{}, a.Backend)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxPosts = 0
	_, err := New(context.Background(), cfg)
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestResolveTranscript(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backend = config.BackendMemory
	a, err := New(context.Background(), cfg, WithBackend(storage.NewMemory()))
	require.NoError(t, err)

	_, err = a.ResolveTranscript("", "")
	assert.Error(t, err, "configured chat dir does not exist yet")

	chatPath := filepath.Join(cfg.ChatsPath(), "Seraphina", "latest.jsonl")
	writeTranscript(t, chatPath)
	got, err := a.ResolveTranscript("", "")
	require.NoError(t, err)
	assert.Equal(t, chatPath, got)

	got, err = a.ResolveTranscript("/explicit.jsonl", "")
	require.NoError(t, err)
	assert.Equal(t, "/explicit.jsonl", got)

	a.Config.HostRoot = ""
	_, err = a.ResolveTranscript("", "")
	assert.ErrorContains(t, err, "no transcript given")
}

func TestContext(t *testing.T) {
	a := &App{}
	ctx := WithContext(context.Background(), a)
	assert.Same(t, a, FromContext(ctx))
	assert.Nil(t, FromContext(context.Background()))
}

func TestNewLogger(t *testing.T) {
	assert.Equal(t, pterm.LogLevelDebug, NewLogger("DEBUG").Level)
	assert.Equal(t, pterm.LogLevelInfo, NewLogger("").Level)
	assert.Equal(t, pterm.LogLevelError, NewLogger("error").Level)
}

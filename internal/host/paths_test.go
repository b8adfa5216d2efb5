package host

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeChat(t *testing.T, path string, mod time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(`{"user_name":"You","character_name":"X"}`+"\n"), 0644))
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func TestPaths(t *testing.T) {
	assert.Equal(t, filepath.Join("/opt/st", "data", "default-user", "settings.json"), SettingsPath("/opt/st"))
	assert.Equal(t, filepath.Join("/opt/st", "data", "default-user", "chats"), ChatsPath("/opt/st"))
}

func TestListTranscripts(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "socialpost-chats-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	writeChat(t, filepath.Join(tempDir, "Seraphina", "old.jsonl"), base)
	writeChat(t, filepath.Join(tempDir, "Seraphina", "new.jsonl"), base.Add(2*time.Hour))
	writeChat(t, filepath.Join(tempDir, "Aqua", "mid.jsonl"), base.Add(time.Hour))
	writeChat(t, filepath.Join(tempDir, "backups", "skip.jsonl"), base.Add(5*time.Hour))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "Aqua", "notes.txt"), []byte("x"), 0644))

	all, err := ListTranscripts(tempDir)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "new.jsonl", filepath.Base(all[0].Path))
	assert.Equal(t, "Seraphina", all[0].Character)
	assert.Equal(t, "Aqua", all[1].Character)
	assert.Equal(t, "old.jsonl", filepath.Base(all[2].Path))

	latest, err := LatestTranscript(tempDir)
	require.NoError(t, err)
	assert.Equal(t, all[0].Path, latest.Path)
}

func TestLatestTranscriptEmpty(t *testing.T) {
	_, err := LatestTranscript(t.TempDir())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no chat transcripts")
}

func TestListTranscriptsMissingDir(t *testing.T) {
	_, err := ListTranscripts(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "chat directory not found")
}

package host

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/boyter/gocodewalker"
)

// SettingsPath returns the host settings file under an install root.
func SettingsPath(root string) string {
	return filepath.Join(root, DefaultUserDir, SettingsFile)
}

// ChatsPath returns the transcript directory under an install root.
func ChatsPath(root string) string {
	return filepath.Join(root, DefaultUserDir, ChatsDir)
}

// Transcript is a chat file found on disk.
type Transcript struct {
	Path      string
	Character string
	ModTime   time.Time
	Size      int64
}

// ListTranscripts walks dir for chat transcripts and returns them newest
// first. The character is the name of the directory holding the file.
func ListTranscripts(dir string) ([]Transcript, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("chat directory not found at %s", dir)
	}

	fileQueue := make(chan *gocodewalker.File, 64)
	walker := gocodewalker.NewFileWalker(dir, fileQueue)
	walker.AllowListExtensions = []string{TranscriptExtension}
	// Host backups live next to the chats and should not be picked up.
	walker.ExcludeDirectory = []string{"backups"}

	errChan := make(chan error, 1)
	go func() {
		errChan <- walker.Start()
	}()

	var found []Transcript
	for f := range fileQueue {
		info, err := os.Stat(f.Location)
		if err != nil {
			continue
		}
		found = append(found, Transcript{
			Path:      f.Location,
			Character: filepath.Base(filepath.Dir(f.Location)),
			ModTime:   info.ModTime(),
			Size:      info.Size(),
		})
	}
	if err := <-errChan; err != nil {
		return nil, fmt.Errorf("failed to walk chat directory: %w", err)
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].ModTime.Equal(found[j].ModTime) {
			return found[i].Path > found[j].Path
		}
		return found[i].ModTime.After(found[j].ModTime)
	})
	return found, nil
}

// LatestTranscript returns the most recently modified transcript in dir.
func LatestTranscript(dir string) (Transcript, error) {
	all, err := ListTranscripts(dir)
	if err != nil {
		return Transcript{}, err
	}
	if len(all) == 0 {
		return Transcript{}, fmt.Errorf("no chat transcripts found in %s", dir)
	}
	return all[0], nil
}

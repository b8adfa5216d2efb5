package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/kernel/socialpost/internal/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeTranscriptList(found []host.Transcript, err error) func(string) ([]host.Transcript, error) {
	return func(string) ([]host.Transcript, error) { return found, err }
}

func sampleTranscripts() []host.Transcript {
	mod := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	return []host.Transcript{
		{Path: "/st/chats/Seraphina/latest.jsonl", Character: "Seraphina", ModTime: mod, Size: 2048},
		{Path: "/st/chats/Aria/old.jsonl", Character: "Aria", ModTime: mod.Add(-time.Hour), Size: 100},
	}
}

func TestTranscriptsList(t *testing.T) {
	setupStdoutCapture(t)
	c := TranscriptsCmd{list: fakeTranscriptList(sampleTranscripts(), nil)}

	require.NoError(t, c.List(context.Background(), TranscriptsListInput{Dir: "/st/chats"}))
	out := outBuf.String()
	assert.Contains(t, out, "Seraphina")
	assert.Contains(t, out, "latest.jsonl")
	assert.Contains(t, out, "2.0 KB")
	assert.Contains(t, out, "Aria")
}

func TestTranscriptsList_Limit(t *testing.T) {
	setupStdoutCapture(t)
	c := TranscriptsCmd{list: fakeTranscriptList(sampleTranscripts(), nil)}

	require.NoError(t, c.List(context.Background(), TranscriptsListInput{Dir: "/st/chats", Limit: 1}))
	assert.NotContains(t, outBuf.String(), "Aria")
}

func TestTranscriptsList_JSON(t *testing.T) {
	setupStdoutCapture(t)
	c := TranscriptsCmd{list: fakeTranscriptList(sampleTranscripts(), nil)}

	var err error
	out := captureStdout(t, func() {
		err = c.List(context.Background(), TranscriptsListInput{Dir: "/st/chats", Output: "json"})
	})
	require.NoError(t, err)

	var got []transcriptJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "2024-03-05T14:07:09Z", got[0].Modified)
	assert.Equal(t, int64(2048), got[0].Size)
}

func TestTranscriptsList_Errors(t *testing.T) {
	setupStdoutCapture(t)
	boom := errors.New("chat directory not found")

	c := TranscriptsCmd{list: fakeTranscriptList(nil, boom)}
	assert.ErrorIs(t, c.List(context.Background(), TranscriptsListInput{Dir: "/nope"}), boom)
	assert.ErrorContains(t, c.List(context.Background(), TranscriptsListInput{}), "no chat directory")

	empty := TranscriptsCmd{list: fakeTranscriptList(nil, nil)}
	require.NoError(t, empty.List(context.Background(), TranscriptsListInput{Dir: "/st/chats"}))
	assert.Contains(t, outBuf.String(), "No transcripts found")
}

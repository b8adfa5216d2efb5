// Package host locates the chat host's data on disk: its settings file and
// the chat transcripts it writes.
package host

const (
	// Namespace is the key the extension blob is stored under
	Namespace = "characterSocialPostGenerator"

	// ExtensionSettingsKey is the top-level settings object holding per-extension blobs
	ExtensionSettingsKey = "extension_settings"

	// DefaultUserDir is the per-user data directory relative to the host install
	DefaultUserDir = "data/default-user"

	// SettingsFile is the host settings file inside the user directory
	SettingsFile = "settings.json"

	// ChatsDir is the directory holding one subdirectory of transcripts per character
	ChatsDir = "chats"

	// TranscriptExtension is the file extension of chat transcripts
	TranscriptExtension = "jsonl"
)

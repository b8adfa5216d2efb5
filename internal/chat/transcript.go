package chat

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// maxLineSize bounds a single transcript line. Host messages can carry long
// generations, so the scanner default of 64KiB is too small.
const maxLineSize = 8 << 20

// Transcript is a parsed host chat file.
type Transcript struct {
	UserName      string
	CharacterName string
	Messages      []Message
	// Skipped counts lines that were not valid JSON.
	Skipped int
}

// LoadTranscript reads a host chat file from disk.
func LoadTranscript(path string) (Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return Transcript{}, fmt.Errorf("failed to open transcript: %w", err)
	}
	defer f.Close()

	t, err := ParseTranscript(f)
	if err != nil {
		return Transcript{}, fmt.Errorf("failed to parse transcript %s: %w", path, err)
	}
	return t, nil
}

// ParseTranscript accepts either JSON Lines (one header line followed by one
// message per line) or a single JSON array of message objects.
func ParseTranscript(r io.Reader) (Transcript, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if err == io.EOF {
			return Transcript{Messages: []Message{}}, nil
		}
		return Transcript{}, err
	}
	if first == '[' {
		return parseArray(br)
	}
	return parseLines(br)
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}

func parseArray(r io.Reader) (Transcript, error) {
	var raws []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raws); err != nil {
		return Transcript{}, fmt.Errorf("invalid message array: %w", err)
	}
	t := Transcript{Messages: make([]Message, 0, len(raws))}
	for _, raw := range raws {
		t.Append(raw)
	}
	return t, nil
}

func parseLines(r io.Reader) (Transcript, error) {
	t := Transcript{Messages: []Message{}}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		t.Append(line)
	}
	if err := sc.Err(); err != nil {
		return Transcript{}, err
	}
	return t, nil
}

// Append decodes one transcript line into t. Header lines set the names,
// undecodable lines are counted in Skipped.
func (t *Transcript) Append(raw []byte) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Skipped++
		return
	}
	if isHeader(fields) {
		decodeString(fields["user_name"], &t.UserName)
		decodeString(fields["character_name"], &t.CharacterName)
		return
	}
	t.Messages = append(t.Messages, messageFromFields(fields))
}

// DecodeMessage decodes one host message object. Missing or non-string text
// yields a message that is not Eligible.
func DecodeMessage(raw []byte) (Message, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Message{}, fmt.Errorf("invalid message: %w", err)
	}
	return messageFromFields(fields), nil
}

func messageFromFields(fields map[string]json.RawMessage) Message {
	var m Message
	decodeString(fields["name"], &m.Name)
	if raw, ok := fields["is_user"]; ok {
		_ = json.Unmarshal(raw, &m.IsUser)
	}
	// "mes" is the host field; "message" is what this tool writes back.
	if !decodeString(fields["mes"], &m.Text) {
		decodeString(fields["message"], &m.Text)
	}
	return m
}

func isHeader(fields map[string]json.RawMessage) bool {
	_, hasMes := fields["mes"]
	_, hasUser := fields["user_name"]
	_, hasChar := fields["character_name"]
	return !hasMes && (hasUser || hasChar)
}

func decodeString(raw json.RawMessage, dst *string) bool {
	if len(raw) == 0 {
		return false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false
	}
	*dst = s
	return true
}

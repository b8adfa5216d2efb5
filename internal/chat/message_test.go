package chat

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectRecent(t *testing.T) {
	log := []Message{
		{IsUser: true, Text: "hi"},
		{IsUser: false, Text: "lol that's wild"},
		{IsUser: true, Text: "fr"},
	}

	tests := []struct {
		name  string
		log   []Message
		limit int
		want  []Message
	}{
		{"all three in order", log, 3, log},
		{"window keeps newest", log, 2, log[1:]},
		{"zero clamps to one", log, 0, log[2:]},
		{"negative clamps to one", log, -5, log[2:]},
		{"nil log", nil, 5, []Message{}},
		{
			name: "skips empty and whitespace",
			log: []Message{
				{IsUser: true, Text: "first"},
				{IsUser: false, Text: "   "},
				{IsUser: true, Text: ""},
				{IsUser: false, Text: "last"},
			},
			limit: 3,
			want:  []Message{{IsUser: true, Text: "first"}, {IsUser: false, Text: "last"}},
		},
		{
			name:  "all empty",
			log:   []Message{{Text: ""}, {Text: "\n\t"}},
			limit: 10,
			want:  []Message{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectRecent(tt.log, tt.limit)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectRecent_ClampsUpperBound(t *testing.T) {
	log := make([]Message, 80)
	for i := range log {
		log[i] = Message{Text: fmt.Sprintf("m%d", i)}
	}

	got := SelectRecent(log, 1000)
	assert.Len(t, got, MaxRecent)
	assert.Equal(t, "m30", got[0].Text)
	assert.Equal(t, "m79", got[len(got)-1].Text)
}

func TestSelectRecent_IsOrderedSubsequence(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for trial := 0; trial < 200; trial++ {
		log := make([]Message, r.IntN(30))
		for i := range log {
			if r.IntN(3) == 0 {
				log[i] = Message{Text: "  "}
				continue
			}
			log[i] = Message{IsUser: r.IntN(2) == 0, Text: fmt.Sprintf("%d", i)}
		}
		limit := r.IntN(70) - 10

		got := SelectRecent(log, limit)
		assert.LessOrEqual(t, len(got), ClampLimit(limit))

		last := -1
		for _, m := range got {
			var idx int
			_, err := fmt.Sscanf(m.Text, "%d", &idx)
			require.NoError(t, err)
			assert.Greater(t, idx, last, "result must follow log order")
			last = idx
		}
	}
}

func TestCharacterAndUserName(t *testing.T) {
	log := []Message{
		{Name: "Mina", IsUser: true, Text: "hey"},
		{Name: "Seraphina", Text: "hello"},
	}
	assert.Equal(t, "Seraphina", CharacterName(log, ""))
	assert.Equal(t, "Header", CharacterName(log, "Header"), "explicit name wins over speakers")
	assert.Equal(t, "Header", CharacterName(nil, "Header"))
	assert.Equal(t, DefaultCharacterName, CharacterName([]Message{{IsUser: true, Text: "x"}}, ""))

	assert.Equal(t, "Mina", UserName(log, ""))
	assert.Equal(t, "Override", UserName(log, "Override"))
	assert.Equal(t, DefaultUserName, UserName(nil, ""))
}

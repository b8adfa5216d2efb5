package table

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
)

func TestPrintTableNoPad(t *testing.T) {
	var buf bytes.Buffer
	pterm.SetDefaultOutput(&buf)
	pterm.DisableStyling()
	t.Cleanup(func() {
		pterm.SetDefaultOutput(os.Stdout)
		pterm.EnableStyling()
	})

	PrintTableNoPad(pterm.TableData{
		{"Property", "Value"},
		{"Platform", "Twitter"},
		{"Style", "funny"},
	}, true)

	out := buf.String()
	assert.Contains(t, out, "Platform")
	assert.Contains(t, out, "Twitter")
	for _, line := range strings.Split(out, "\n") {
		assert.Equal(t, strings.TrimRight(line, " "), line)
	}
}

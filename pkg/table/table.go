package table

import (
	"strings"

	"github.com/pterm/pterm"
)

// PrintTableNoPad renders data as a pterm table with trailing cell padding
// trimmed from every line.
func PrintTableNoPad(data pterm.TableData, hasHeader bool) {
	out, err := pterm.DefaultTable.WithHasHeader(hasHeader).WithData(data).Srender()
	if err != nil {
		pterm.Error.Printf("failed to render table: %v\n", err)
		return
	}
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	pterm.Println(strings.Join(lines, "\n"))
}

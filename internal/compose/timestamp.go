package compose

import (
	"fmt"
	"time"
)

// BuddhistEraOffset converts a Gregorian year to the Thai solar calendar.
const BuddhistEraOffset = 543

// FormatThai renders t the way the th-TH locale prints a date and time,
// e.g. "14/10/2569 13:45:12".
func FormatThai(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d %d:%02d:%02d",
		t.Day(), int(t.Month()), t.Year()+BuddhistEraOffset, t.Hour(), t.Minute(), t.Second())
}

package render

import (
	"fmt"
	"time"

	"github.com/kernel/socialpost/internal/compose"
	"github.com/kernel/socialpost/internal/post"
)

var thaiWeekdays = [...]string{"อาทิตย์", "จันทร์", "อังคาร", "พุธ", "พฤหัสบดี", "ศุกร์", "เสาร์"}

var thaiMonths = [...]string{
	"มกราคม", "กุมภาพันธ์", "มีนาคม", "เมษายน", "พฤษภาคม", "มิถุนายน",
	"กรกฎาคม", "สิงหาคม", "กันยายน", "ตุลาคม", "พฤศจิกายน", "ธันวาคม",
}

var thaiMonthsShort = [...]string{
	"ม.ค.", "ก.พ.", "มี.ค.", "เม.ย.", "พ.ค.", "มิ.ย.",
	"ก.ค.", "ส.ค.", "ก.ย.", "ต.ค.", "พ.ย.", "ธ.ค.",
}

// CardTime is the time line shown on a post card. Each platform has its own
// format; years are in the Buddhist era.
func CardTime(p post.Platform, t time.Time) string {
	clock := t.Format("15:04")
	year := t.Year() + compose.BuddhistEraOffset
	switch p {
	case post.Facebook:
		return fmt.Sprintf("%s · วัน%sที่ %d %s พ.ศ. %d",
			clock, thaiWeekdays[t.Weekday()], t.Day(), thaiMonths[t.Month()-1], year)
	case post.Twitter:
		return fmt.Sprintf("%s · %d %s %d", clock, t.Day(), thaiMonthsShort[t.Month()-1], year)
	default:
		return clock
	}
}

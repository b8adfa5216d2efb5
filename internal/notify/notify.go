// Package notify delivers short user-facing toasts after each action.
package notify

import (
	"io"
	"sync"

	"github.com/pterm/pterm"
)

// Severity of a toast.
type Severity string

const (
	Success Severity = "success"
	Info    Severity = "info"
	Error   Severity = "error"
)

// Toast texts shown after user actions.
const (
	MsgGenerated = "สร้างโพสต์สำเร็จ!"
	MsgNoContext = "ไม่มีบทสนทนาพอสำหรับสร้างโพสต์"
	MsgFailed    = "สร้างโพสต์ไม่สำเร็จ"
	MsgCopied    = "คัดลอกโพสต์แล้ว!"
	MsgCopyFail  = "คัดลอกโพสต์ไม่สำเร็จ"
	MsgDeleted   = "ลบโพสต์แล้ว!"
	MsgCleared   = "ล้างโพสต์ทั้งหมดแล้ว!"
	MsgSaved     = "บันทึกการตั้งค่าแล้ว!"
	// MsgConfirmClear is the prompt shown before clearing the feed.
	MsgConfirmClear = "ต้องการลบโพสต์ทั้งหมดใช่ไหม?"
)

// Notifier is the host notification hook.
type Notifier interface {
	Notify(msg string, sev Severity)
}

// Nop drops every toast.
type Nop struct{}

func (Nop) Notify(string, Severity) {}

// Terminal prints toasts with pterm prefix printers. A nil Writer uses
// pterm's default output.
type Terminal struct {
	Writer io.Writer
}

func (t Terminal) Notify(msg string, sev Severity) {
	var printer pterm.PrefixPrinter
	switch sev {
	case Success:
		printer = pterm.Success
	case Error:
		printer = pterm.Error
	default:
		printer = pterm.Info
	}
	if t.Writer != nil {
		printer = *printer.WithWriter(t.Writer)
	}
	printer.Println(msg)
}

// Toast is one recorded notification.
type Toast struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Recorder keeps toasts in memory.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *Recorder) Notify(msg string, sev Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, Toast{Message: msg, Severity: sev})
}

// Toasts returns what has been recorded so far.
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Toast{}, r.toasts...)
}

// OrNop returns n, or Nop when n is nil.
func OrNop(n Notifier) Notifier {
	if n == nil {
		return Nop{}
	}
	return n
}

package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/kernel/socialpost/internal/pipeline"
	"github.com/kernel/socialpost/internal/post"
	"github.com/kernel/socialpost/internal/settings"
	"github.com/pterm/pterm"
)

var outBuf bytes.Buffer

// setupStdoutCapture routes pterm output into outBuf for the test. The prefix
// printers keep their own writer, so each is pointed at outBuf as well.
func setupStdoutCapture(t *testing.T) {
	t.Helper()
	outBuf.Reset()
	printers := []*pterm.PrefixPrinter{&pterm.Info, &pterm.Success, &pterm.Warning, &pterm.Error}
	saved := make([]io.Writer, len(printers))
	for i, p := range printers {
		saved[i] = p.Writer
		p.Writer = &outBuf
	}
	pterm.SetDefaultOutput(&outBuf)
	pterm.DisableStyling()
	t.Cleanup(func() {
		for i, p := range printers {
			p.Writer = saved[i]
		}
		pterm.SetDefaultOutput(os.Stdout)
		pterm.EnableStyling()
	})
}

// captureStdout collects what fn prints with fmt on os.Stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	t.Cleanup(func() {
		os.Stdout = oldStdout
	})

	fn()

	w.Close()
	var stdoutBuf bytes.Buffer
	_, _ = io.Copy(&stdoutBuf, r)
	return stdoutBuf.String()
}

// FakeSettingsService keeps settings in memory.
type FakeSettingsService struct {
	Current   settings.Settings
	LoadFunc  func(ctx context.Context) (settings.Settings, error)
	SaveFunc  func(ctx context.Context, s settings.Settings) error
	saveCalls int
}

func (f *FakeSettingsService) Load(ctx context.Context) (settings.Settings, error) {
	if f.LoadFunc != nil {
		return f.LoadFunc(ctx)
	}
	if f.Current.Platform == "" {
		return settings.Defaults(), nil
	}
	return f.Current, nil
}

func (f *FakeSettingsService) Save(ctx context.Context, s settings.Settings) error {
	f.saveCalls++
	if f.SaveFunc != nil {
		return f.SaveFunc(ctx, s)
	}
	f.Current = s
	return nil
}

// FakeGeneratorService records requests.
type FakeGeneratorService struct {
	GenerateFunc      func(ctx context.Context, req pipeline.Request) ([]post.Post, error)
	OnMessageSentFunc func(ctx context.Context, req pipeline.Request) ([]post.Post, bool, error)

	mu       sync.Mutex
	requests []pipeline.Request
}

func (f *FakeGeneratorService) Generate(ctx context.Context, req pipeline.Request) ([]post.Post, error) {
	f.record(req)
	if f.GenerateFunc != nil {
		return f.GenerateFunc(ctx, req)
	}
	return []post.Post{{ID: "generated", Platform: req.Settings.Platform, Content: "โพสต์"}}, nil
}

func (f *FakeGeneratorService) OnMessageSent(ctx context.Context, req pipeline.Request) ([]post.Post, bool, error) {
	f.record(req)
	if f.OnMessageSentFunc != nil {
		return f.OnMessageSentFunc(ctx, req)
	}
	return nil, false, nil
}

func (f *FakeGeneratorService) record(req pipeline.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
}

func (f *FakeGeneratorService) Requests() []pipeline.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]pipeline.Request{}, f.requests...)
}

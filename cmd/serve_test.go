package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type FakePanelServer struct {
	ListenAndServeFunc func(ctx context.Context, addr string) error
	addr               string
}

func (f *FakePanelServer) ListenAndServe(ctx context.Context, addr string) error {
	f.addr = addr
	if f.ListenAndServeFunc != nil {
		return f.ListenAndServeFunc(ctx, addr)
	}
	return nil
}

func TestServe(t *testing.T) {
	setupStdoutCapture(t)
	srv := &FakePanelServer{}
	var opened string
	c := ServeCmd{server: srv, openURL: func(url string) error { opened = url; return nil }}

	require.NoError(t, c.Serve(context.Background(), ServeInput{Addr: DefaultPanelAddr, Open: true}))
	assert.Equal(t, DefaultPanelAddr, srv.addr)
	assert.Equal(t, "http://"+DefaultPanelAddr, opened)
	assert.Contains(t, outBuf.String(), "Serving panel on http://127.0.0.1:8787")
	assert.NotContains(t, outBuf.String(), "no authentication")
}

func TestServe_WarnsOnPublicAddr(t *testing.T) {
	setupStdoutCapture(t)
	c := ServeCmd{server: &FakePanelServer{}}

	require.NoError(t, c.Serve(context.Background(), ServeInput{Addr: "0.0.0.0:8787"}))
	assert.Contains(t, outBuf.String(), "no authentication")
}

func TestServe_Errors(t *testing.T) {
	setupStdoutCapture(t)
	c := ServeCmd{server: &FakePanelServer{}}
	assert.ErrorContains(t, c.Serve(context.Background(), ServeInput{Addr: "8787"}), "invalid --addr")

	boom := errors.New("address in use")
	c = ServeCmd{server: &FakePanelServer{ListenAndServeFunc: func(context.Context, string) error { return boom }}}
	assert.ErrorIs(t, c.Serve(context.Background(), ServeInput{Addr: DefaultPanelAddr}), boom)
}

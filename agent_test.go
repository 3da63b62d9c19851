package recipai

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pancsta/recipai/dialog"
	"github.com/pancsta/recipai/session"
)

// stopWorker has to block until an in-flight handler returned, eviction
// must never race a running dispatch over the same session.
func TestStopWorkerWaitsForHandler(t *testing.T) {
	cfg := ConfigDefault()
	cfg.Token = "test-token"
	cfg.Dir = t.TempDir()
	a, err := New(context.Background(), &cfg)
	assert.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool

	root := &dialog.Conversation[*session.Session]{
		Name: "root",
		Entry: []dialog.Transition[*session.Session]{
			dialog.On[*session.Session](dialog.OnAny(),
				func(_ context.Context, s *session.Session,
					_ dialog.Event) (dialog.State, error) {

					close(started)
					<-release
					s.LastPrompt = &session.MsgRef{ChatID: s.ChatID, MsgID: 1}
					finished.Store(true)
					return dialog.End, nil
				}),
		},
	}
	a.Runtime = dialog.NewRuntime(root, dialog.Menu, a.Logger())

	a.dispatch(dialog.Event{Kind: dialog.KindText, ChatID: 1})
	<-started

	stopped := make(chan struct{})
	go func() {
		a.stopWorker(1)
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("stopWorker returned while a handler was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("stopWorker never returned")
	}

	// the handler ran to completion, including its session write
	assert.True(t, finished.Load())
	assert.NotNil(t, a.Sessions.Get(1).LastPrompt)

	// idempotent on a gone worker
	a.stopWorker(1)
}

package recipai

import (
	"context"
	"os"
	"path/filepath"
	"time"

	am "github.com/pancsta/asyncmachine-go/pkg/machine"

	"github.com/pancsta/recipai/blob"
	"github.com/pancsta/recipai/db"
	"github.com/pancsta/recipai/dialog"
	"github.com/pancsta/recipai/flow"
	"github.com/pancsta/recipai/session"
	"github.com/pancsta/recipai/telegram"
)

func (a *Agent) ExceptionState(e *am.Event) {
	a.ExceptionHandler.ExceptionState(e)
	args := am.ParseArgs(e.Args)
	a.logger.Error("exception", "err", args.Err)
}

func (a *Agent) StartEnter(e *am.Event) bool {
	return a.Config.Token != "" && a.Config.Dir != ""
}

func (a *Agent) StartState(e *am.Event) {
	if err := os.MkdirAll(a.Config.Dir, 0o755); err != nil {
		a.mach.EvAddErr(e, err, nil)
	}
}

func (a *Agent) DBStartingState(e *am.Event) {
	mach := a.mach
	ctx := mach.NewStateCtx(ss.DBStarting)
	dir := a.Config.Dir

	go func() {
		if ctx.Err() != nil {
			return // expired
		}

		store, err := db.Open(filepath.Join(dir, "recipai.sqlite"))
		if ctx.Err() != nil {
			return // expired
		}
		if err != nil {
			mach.EvAddErrState(e, ss.ErrDB, err, nil)
			return
		}

		blobs, err := blob.New(dir)
		if err != nil {
			mach.EvAddErrState(e, ss.ErrDB, err, nil)
			return
		}

		a.DB = store
		a.Blob = blobs
		mach.EvAdd1(e, ss.DBReady, nil)
	}()
}

func (a *Agent) DBReadyEnd(e *am.Event) {
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.logger.Error("db close", "err", err)
		}
		a.DB = nil
	}
}

func (a *Agent) BotStartingState(e *am.Event) {
	mach := a.mach
	ctx := mach.NewStateCtx(ss.BotStarting)

	go func() {
		if ctx.Err() != nil {
			return // expired
		}

		bot, err := telegram.New(a.Config.Token, a.logger)
		if ctx.Err() != nil {
			return // expired
		}
		if err != nil {
			mach.EvAddErrState(e, ss.ErrBot, err, nil)
			return
		}

		a.Bot = bot
		a.Log("bot authorized", "username", bot.Username())
		mach.EvAdd1(e, ss.BotReady, nil)
	}()
}

// BotReadyState wires the conversation tree and starts the poller.
func (a *Agent) BotReadyState(e *am.Event) {
	ctx := a.mach.NewStateCtx(ss.BotReady)

	a.Flows = flow.New(a.DB, a.Blob, a.Bot, a.logger)
	a.Runtime = dialog.NewRuntime(a.Flows.Root(), dialog.Menu, a.logger)
	a.Runtime.OnEnd(func(_ context.Context, _ *session.Session,
		chatID int64) {

		a.Sessions.Clear(chatID)
	})

	go func() {
		if ctx.Err() != nil {
			return // expired
		}
		a.Bot.Run(ctx, a.dispatch)
	}()
}

// ReadyState starts the heartbeat.
func (a *Agent) ReadyState(e *am.Event) {
	mach := a.mach
	ctx := mach.NewStateCtx(ss.Ready)

	go func() {
		tick := time.NewTicker(a.Config.Agent.HeartbeatFreq)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return // expired
			case <-tick.C:
				mach.Add1(ss.Heartbeat, nil)
			}
		}
	}()
}

func (a *Agent) HeartbeatState(e *am.Event) {
	mach := a.mach
	mach.Remove1(ss.Heartbeat, nil)
	mach.EvAdd1(e, ss.SessionGC, nil)
}

// SessionGCState evicts sessions idle beyond the TTL, retiring their
// prompts. Eviction runs between dispatches, never mid-handler.
func (a *Agent) SessionGCState(e *am.Event) {
	mach := a.mach
	defer mach.Remove1(ss.SessionGC, nil)

	deadline := time.Now().Add(-a.Config.Agent.SessionTTL)
	for _, sess := range a.Sessions.Idle(deadline) {
		a.stopWorker(sess.ChatID)

		if sess.LastPrompt != nil && a.Bot != nil {
			err := a.Bot.RetireControls(mach.Context(), *sess.LastPrompt)
			if err != nil {
				a.logger.Debug("retire on evict",
					"chat", sess.ChatID, "err", err)
			}
		}

		a.Runtime.Clear(sess.ChatID)
		a.Sessions.Drop(sess.ChatID)
		a.Log("session evicted", "chat", sess.ChatID)
	}
}

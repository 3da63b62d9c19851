// Package recipai is a Telegram agent for keeping cooking recipes one
// tap away.
package recipai

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	amhelp "github.com/pancsta/asyncmachine-go/pkg/helpers"
	am "github.com/pancsta/asyncmachine-go/pkg/machine"
	ssam "github.com/pancsta/asyncmachine-go/pkg/states"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pancsta/recipai/blob"
	"github.com/pancsta/recipai/db"
	"github.com/pancsta/recipai/dialog"
	"github.com/pancsta/recipai/flow"
	"github.com/pancsta/recipai/schema"
	"github.com/pancsta/recipai/session"
	"github.com/pancsta/recipai/shared"
	"github.com/pancsta/recipai/telegram"
)

var ss = schema.RecipaiStates

type S = am.S

// queue depth of one chat's mailbox
const chatQueueLen = 64

// Agent supervises the collaborators and serializes events per chat.
type Agent struct {
	*am.ExceptionHandler
	*ssam.DisposedHandlers

	Config *Config

	// collaborators

	DB       *db.Store
	Blob     *blob.Store
	Bot      *telegram.Bot
	Sessions *session.Store
	Runtime  *dialog.Runtime[*session.Session]
	Flows    *flow.Flows

	// internals

	ctx    context.Context
	mach   *am.Machine
	logger *slog.Logger
	// loggerMach is a bridge between slog and machine log
	loggerMach *slog.Logger

	wmu     sync.Mutex
	workers map[int64]*chatWorker
}

// New returns a preconfigured instance of Agent.
func New(ctx context.Context, cfg *Config) (*Agent, error) {
	a := &Agent{
		ExceptionHandler: &am.ExceptionHandler{},
		DisposedHandlers: &ssam.DisposedHandlers{},
		Config:           cfg,
		Sessions:         session.NewStore(),
		ctx:              ctx,
		workers:          map[int64]*chatWorker{},
	}
	if err := a.Init(a); err != nil {
		return nil, err
	}

	return a, nil
}

// Init initializes the Agent and returns an error. It does not block.
func (a *Agent) Init(handlers any) error {
	cfg := a.Config
	a.logger = newLogger(&cfg.Log)

	// machine
	mach, err := am.NewCommon(a.ctx, cfg.Agent.ID, schema.RecipaiSchema,
		ss.Names(), handlers, nil, nil)
	if err != nil {
		return err
	}
	a.mach = mach
	mach.SetGroups(schema.RecipaiGroups, ss)
	shared.MachTelemetry(mach, LogArgs)

	// machine logger
	a.loggerMach = slog.New(slog.NewTextHandler(
		amhelp.SlogToMachLog{Mach: mach}, amhelp.SlogToMachLogOpts))

	return nil
}

func newLogger(cfg *ConfigLog) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	var out io.Writer = os.Stdout
	if cfg.File != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMb,
			MaxBackups: cfg.MaxBackups,
		}
	}

	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
}

// METHODS

func (a *Agent) Mach() *am.Machine {
	return a.mach
}

func (a *Agent) Logger() *slog.Logger {
	return a.logger
}

// Log will push a log entry to Logger as Info() and optionally the
// machine log with RECIPAI_AM_LOG.
func (a *Agent) Log(txt string, args ...any) {
	if os.Getenv("RECIPAI_AM_LOG") != "" {
		a.loggerMach.Info(txt, args...)
	}
	a.logger.Info(txt, args...)
}

// Start is a sugar for adding a [schema.RecipaiStatesDef.Start] mutation.
func (a *Agent) Start() am.Result {
	return a.mach.Add1(ss.Start, nil)
}

func (a *Agent) Stop(disposeCtx context.Context) am.Result {
	res := a.mach.Remove1(ss.Start, nil)
	if disposeCtx != nil {
		a.mach.Add1(ss.Disposing, nil)
		<-a.mach.When1(ss.Disposed, disposeCtx)
	}

	return res
}

// ///// ///// /////

// ///// CHAT WORKERS

// ///// ///// /////

// chatWorker serializes the events of a single chat.
type chatWorker struct {
	events chan dialog.Event
	quit   chan struct{}
	// done closes when the worker goroutine returned.
	done chan struct{}
}

// dispatch enqueues an event into its chat's mailbox, creating the
// worker on first contact.
func (a *Agent) dispatch(ev dialog.Event) {
	a.wmu.Lock()
	w, ok := a.workers[ev.ChatID]
	if !ok {
		w = &chatWorker{
			events: make(chan dialog.Event, chatQueueLen),
			quit:   make(chan struct{}),
			done:   make(chan struct{}),
		}
		a.workers[ev.ChatID] = w
		go a.workChat(w)
	}
	a.wmu.Unlock()

	select {
	case w.events <- ev:
	default:
		a.logger.Warn("chat queue full, dropping", "chat", ev.ChatID)
	}
}

// workChat runs a chat's mailbox until stopped or disposed.
func (a *Agent) workChat(w *chatWorker) {
	defer close(w.done)
	for {
		select {
		case <-a.mach.Context().Done():
			return // expired

		case <-w.quit:
			return

		case ev := <-w.events:
			sess := a.Sessions.Get(ev.ChatID)
			sess.UserID = ev.UserID
			if ev.UserName != "" {
				sess.UserName = ev.UserName
			}
			// errs are logged and handled by the runtime
			_ = a.Runtime.Dispatch(a.mach.Context(), sess, ev)
		}
	}
}

// stopWorker signals the worker and blocks until it exited, so a session
// is never touched while one of its handlers is still running.
func (a *Agent) stopWorker(chatID int64) {
	a.wmu.Lock()
	w, ok := a.workers[chatID]
	if ok {
		close(w.quit)
		delete(a.workers, chatID)
	}
	a.wmu.Unlock()
	if !ok {
		return
	}

	<-w.done
}

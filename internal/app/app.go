// Package app wires the terminal, the editor, and the highlight engine
// into one cooperative event loop.
package app

import (
	"path/filepath"
	"runtime"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ferrispad/ferrispad/internal/config"
	"github.com/ferrispad/ferrispad/internal/editor"
	"github.com/ferrispad/ferrispad/internal/gitinfo"
	"github.com/ferrispad/ferrispad/internal/grammar"
	"github.com/ferrispad/ferrispad/internal/highlight"
	"github.com/ferrispad/ferrispad/internal/logger"
	"github.com/ferrispad/ferrispad/internal/session"
)

// App is the top-level runtime for ferrispad.
type App struct {
	args []string
}

func New(args []string) *App {
	return &App{args: args}
}

// loopHost adapts the tcell screen to the engine's host interface.
// Deferred work travels as interrupt events, so Engine.Tick always runs
// on the event-loop thread no matter which goroutine the timer fires
// on.
type loopHost struct {
	screen tcell.Screen
	ed     *editor.Editor
}

func (h *loopHost) PostDeferred(delay time.Duration, tok highlight.Token) {
	if delay <= 0 {
		_ = h.screen.PostEvent(tcell.NewEventInterrupt(tok))
		return
	}
	time.AfterFunc(delay, func() {
		_ = h.screen.PostEvent(tcell.NewEventInterrupt(tok))
	})
}

func (h *loopHost) BindStyleTable(doc highlight.DocumentID, entries []highlight.StyleTableEntry) {
	h.ed.BindStyleTable(doc, entries)
}

func (h *loopHost) RequestRedrawIfActive(doc highlight.DocumentID) {
	h.ed.MarkDocChanged(doc)
}

func (h *loopHost) ShowProgressBanner(text string) { h.ed.SetProgressBanner(text) }

func (h *loopHost) HideProgressBanner() { h.ed.SetProgressBanner("") }

func (a *App) Run() error {
	runtime.LockOSThread()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	langs, err := config.LoadLanguages()
	if err != nil {
		return err
	}
	if err := logger.Init(false); err != nil {
		return err
	}
	defer logger.Close()

	sm, smErr := session.NewManager()
	if smErr != nil {
		logger.Warn("session disabled", "error", smErr)
	} else {
		defer sm.Stop()
		if theme := sm.Theme(); theme != "" {
			cfg.Highlight.Theme = theme
		}
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	ed := editor.New(cfg)
	host := &loopHost{screen: s, ed: ed}
	eng := highlight.New(host, langs, grammar.LoadTheme(cfg.Highlight.Theme),
		highlight.TuningFromConfig(cfg.Highlight))
	if !cfg.Highlight.Enabled {
		eng.SetEnabled(false)
	}
	ed.SetEngine(eng)

	gitPath := "."
	if len(a.args) == 0 {
		ed.OpenScratch()
	}
	for _, arg := range a.args {
		path, err := filepath.Abs(arg)
		if err != nil {
			path = arg
		}
		if err := ed.OpenFile(path); err != nil {
			return err
		}
		gitPath = path
		if sm != nil {
			if st, ok := sm.FileState(path); ok {
				ed.RestoreView(path, st.Cursor, st.Scroll)
			}
		}
	}
	ed.SetGitBranch(gitinfo.Branch(gitPath))

	lastGitCheck := time.Now()
	ed.Render(s)
	for {
		ev := s.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ed.HandleKey(ev, ed.ViewHeight(s)) {
				a.persist(sm, ed)
				return nil
			}
		case *tcell.EventResize:
			s.Sync()
			ed.MarkResized()
		case *tcell.EventInterrupt:
			if tok, ok := ev.Data().(highlight.Token); ok {
				eng.Tick(tok)
			}
		}
		if time.Since(lastGitCheck) > 2*time.Second {
			lastGitCheck = time.Now()
			ed.SetGitBranch(gitinfo.Branch(gitPath))
		}
		if ed.ConsumeRedraw() {
			ed.Render(s)
		}
	}
}

func (a *App) persist(sm *session.Manager, ed *editor.Editor) {
	if sm == nil {
		return
	}
	for _, v := range ed.FileViews() {
		sm.SetFileState(v.Path, session.FileState{Cursor: v.Cursor, Scroll: v.Scroll})
	}
	sm.SetTheme(ed.ThemeName())
}

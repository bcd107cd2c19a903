package highlight

import "time"

// DocumentID identifies a document for the lifetime of the session.
// The host assigns ids and never reuses them.
type DocumentID int64

// TextBuffer is the engine's view of a document's text. Implemented by
// *textbuf.Buffer; tests supply their own.
type TextBuffer interface {
	Len() int
	Bytes() []byte
	LineCount() int
	LineStart(line int) int
	LineAt(pos int) int
}

// StyleBuffer is the engine's view of a document's style channel. The
// engine keeps it the same length as the text buffer at every quiescent
// point; each byte is a style tag.
type StyleBuffer interface {
	Len() int
	Bytes() []byte
	Replace(start, end int, tags []byte)
}

// EditNotifier is implemented by text buffers that deliver edit
// notifications. When a document's buffer implements it, the engine
// installs its hook on open and removes it on detach, before dropping
// any other reference to the binding.
type EditNotifier interface {
	SetEditFunc(fn func(pos, inserted, deleted int))
}

type tokenKind uint8

const (
	tokenRehighlight tokenKind = iota
	tokenChunk
)

// Token is an opaque handle for deferred work. The host hands it back
// through Engine.Tick when the requested delay elapses.
type Token struct {
	kind tokenKind
	doc  DocumentID
}

// Host is the surface the engine requires from the surrounding editor.
// The engine never touches widgets; it routes everything through here.
// All methods are invoked on the event-loop thread.
type Host interface {
	// PostDeferred schedules Engine.Tick(tok) after delay on the
	// event-loop thread. A zero delay means the next loop turn.
	PostDeferred(delay time.Duration, tok Token)

	// BindStyleTable installs the style table; called when the table
	// gained entries since the last bind.
	BindStyleTable(doc DocumentID, entries []StyleTableEntry)

	// RequestRedrawIfActive repaints the view showing doc, if any.
	RequestRedrawIfActive(doc DocumentID)

	ShowProgressBanner(text string)
	HideProgressBanner()
}

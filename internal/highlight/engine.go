package highlight

import (
	"bytes"
	"time"

	"github.com/ferrispad/ferrispad/internal/config"
	"github.com/ferrispad/ferrispad/internal/grammar"
)

// Tuning bounds the engine's work per event-loop turn.
type Tuning struct {
	// CheckpointInterval is the spacing of saved states, in lines.
	// Larger values save memory, smaller ones cap the re-lex distance
	// after an edit.
	CheckpointInterval int

	// LargeFileThreshold is the line count above which the initial
	// highlight runs chunked instead of in one pass.
	LargeFileThreshold int

	// ChunkSize is how many lines a chunked pass covers per turn.
	ChunkSize int

	// Debounce delays the re-highlight after an edit so a burst of
	// keystrokes coalesces into one pass.
	Debounce time.Duration

	// MaxStyleTags caps the style table (at most 26).
	MaxStyleTags int
}

func DefaultTuning() Tuning {
	return Tuning{
		CheckpointInterval: 128,
		LargeFileThreshold: 5000,
		ChunkSize:          2000,
		Debounce:           50 * time.Millisecond,
		MaxStyleTags:       26,
	}
}

func TuningFromConfig(hl config.HighlightOptions) Tuning {
	t := DefaultTuning()
	if hl.CheckpointInterval > 0 {
		t.CheckpointInterval = hl.CheckpointInterval
	}
	if hl.LargeFileThreshold > 0 {
		t.LargeFileThreshold = hl.LargeFileThreshold
	}
	if hl.ChunkSize > 0 {
		t.ChunkSize = hl.ChunkSize
	}
	if hl.DebounceMS > 0 {
		t.Debounce = time.Duration(hl.DebounceMS) * time.Millisecond
	}
	if hl.MaxStyleTags > 0 {
		t.MaxStyleTags = hl.MaxStyleTags
	}
	return t
}

type docState uint8

const (
	stateUnhighlighted docState = iota
	stateFullyCached
	statePartiallyCached
	stateInChunked
	stateQueued
)

// binding is the engine's per-document record. The engine owns the
// checkpoints and the style buffer contents exclusively.
type binding struct {
	id     DocumentID
	text   TextBuffer
	styles StyleBuffer
	path   string
	syntax *grammar.Syntax
	cps    Checkpoints
	state  docState

	// frontier is the number of leading lines the cached checkpoints
	// describe. Equal to the line count for FullyCached bindings; less
	// after a cancelled chunked pass.
	frontier int

	// seenLines is the line count observed at the last edit or rebuild.
	// shifted records that an edit since the last full rebuild moved
	// lines, so the checkpoint indices no longer name their true lines.
	seenLines int
	shifted   bool
}

// chunkCursor is the in-flight state of a chunked initial highlight.
// At most one exists; it is a plain value advanced one chunk per turn,
// which keeps it restartable, cancellable, and inspectable.
type chunkCursor struct {
	doc      DocumentID
	syntax   *grammar.Syntax
	snapshot []byte
	sc       *LineScanner
	nextLine int
	byteOff  int
	parse    grammar.ParseState
	hl       grammar.HighlightState
	cps      Checkpoints
}

// Engine schedules highlight passes for every open document. All entry
// points run on the host's event-loop thread; the engine takes no locks
// and starts no goroutines.
type Engine struct {
	host   Host
	langs  config.Languages
	theme  *grammar.Theme
	tuning Tuning

	styles  *StyleMap
	hl      *Highlighter
	enabled bool

	docs map[DocumentID]*binding

	// pending holds, per document, the minimum edited byte position of
	// the edits coalesced behind one debounced re-highlight.
	pending map[DocumentID]int

	cursor *chunkCursor
	queue  []DocumentID
}

func New(host Host, langs config.Languages, theme *grammar.Theme, tuning Tuning) *Engine {
	if tuning.CheckpointInterval < 1 {
		tuning = DefaultTuning()
	}
	styles := NewStyleMap(theme.Default(), 0, 0, tuning.MaxStyleTags)
	return &Engine{
		host:    host,
		langs:   langs,
		theme:   theme,
		tuning:  tuning,
		styles:  styles,
		hl:      NewHighlighter(styles, tuning.CheckpointInterval),
		enabled: true,
		docs:    make(map[DocumentID]*binding),
		pending: make(map[DocumentID]int),
	}
}

// Theme returns the active theme.
func (e *Engine) Theme() *grammar.Theme { return e.theme }

// Enabled reports whether highlighting is globally on.
func (e *Engine) Enabled() bool { return e.enabled }

// StyleTable returns the current style table in tag order.
func (e *Engine) StyleTable() []StyleTableEntry { return e.styles.Entries() }

// SyntaxName returns the detected grammar name for a document, or ""
// for unhighlighted documents.
func (e *Engine) SyntaxName(id DocumentID) string {
	if b, ok := e.docs[id]; ok && b.syntax != nil {
		return b.syntax.Name
	}
	return ""
}

// ChunkActive reports whether a chunked initial highlight is running.
func (e *Engine) ChunkActive() bool { return e.cursor != nil }

// OpenDocument binds a document to the engine: the style buffer is
// brought to length parity with all-default tags, the edit hook is
// installed, and an initial highlight is scheduled if a grammar matches
// the path.
func (e *Engine) OpenDocument(id DocumentID, text TextBuffer, styles StyleBuffer, path string) {
	if _, ok := e.docs[id]; ok {
		return
	}
	b := &binding{id: id, text: text, styles: styles, path: path, seenLines: text.LineCount()}
	styles.Replace(0, styles.Len(), defaultTags(text.Len()))
	if n, ok := text.(EditNotifier); ok {
		n.SetEditFunc(func(pos, inserted, deleted int) {
			e.OnEdit(id, pos, inserted, deleted)
		})
	}
	e.docs[id] = b

	b.syntax = grammar.Detect(path, e.langs)
	if b.syntax == nil || !e.enabled {
		b.state = stateUnhighlighted
		return
	}
	e.scheduleInitial(b)
}

// CloseDocument detaches a document. The edit hook is removed before
// any other reference is released, and the call is idempotent: closing
// an unknown id is a no-op.
func (e *Engine) CloseDocument(id DocumentID) {
	b, ok := e.docs[id]
	if !ok {
		return
	}
	if e.cursor != nil && e.cursor.doc == id {
		e.dropCursor()
		e.advanceQueue()
	}
	e.removeQueued(id)
	delete(e.pending, id)
	if n, ok := b.text.(EditNotifier); ok {
		n.SetEditFunc(nil)
	}
	delete(e.docs, id)
}

// OnEdit handles one edit notification. Style-buffer length parity is
// restored here, synchronously, before control returns to the caller;
// the actual re-highlight is debounced.
func (e *Engine) OnEdit(id DocumentID, pos, inserted, deleted int) {
	b, ok := e.docs[id]
	if !ok {
		// Notification raced teardown; nothing to update.
		return
	}
	if inserted > 0 || deleted > 0 {
		b.styles.Replace(pos, pos+deleted, defaultTags(inserted))
	}
	if !e.enabled || b.syntax == nil {
		return
	}
	if n := b.text.LineCount(); n != b.seenLines {
		b.seenLines = n
		b.shifted = true
	}
	if e.cursor != nil && e.cursor.doc == id {
		e.cancelCursor(b)
	}
	if p, ok := e.pending[id]; ok {
		if pos < p {
			e.pending[id] = pos
		}
		return
	}
	e.pending[id] = pos
	e.host.PostDeferred(e.tuning.Debounce, Token{kind: tokenRehighlight, doc: id})
}

// Tick runs deferred work handed back by the host.
func (e *Engine) Tick(tok Token) {
	switch tok.kind {
	case tokenRehighlight:
		pos, ok := e.pending[tok.doc]
		if !ok {
			return
		}
		delete(e.pending, tok.doc)
		b := e.docs[tok.doc]
		if b == nil || !e.enabled || b.syntax == nil {
			return
		}
		e.incremental(b, pos)
	case tokenChunk:
		e.chunkTick(tok.doc)
	}
}

// SetTheme switches the palette: the style map restarts from the new
// default, every cached state is dropped, and initial highlights are
// re-issued (chunked for large files).
func (e *Engine) SetTheme(theme *grammar.Theme) {
	e.theme = theme
	e.styles.Reset(theme.Default())
	if e.cursor != nil {
		e.dropCursor()
	}
	e.queue = nil
	for _, b := range e.docs {
		b.cps.Clear()
		b.frontier = 0
		b.shifted = false
		if b.syntax == nil || !e.enabled {
			b.state = stateUnhighlighted
			e.host.RequestRedrawIfActive(b.id)
			continue
		}
		e.scheduleInitial(b)
	}
}

// SetFont rewrites font and size on every style table entry in place.
// Checkpoints stay valid: the color-to-tag mapping is untouched.
func (e *Engine) SetFont(font, size int) {
	e.styles.SetFont(font, size)
	for id := range e.docs {
		e.host.BindStyleTable(id, e.styles.Entries())
		e.host.RequestRedrawIfActive(id)
	}
	e.styles.ClearChanged()
}

// SetEnabled turns highlighting on or off globally. Disabling drops the
// cursor, the queue, and every document's checkpoints, and resets all
// style buffers to the default tag, so length parity is kept.
func (e *Engine) SetEnabled(on bool) {
	if on == e.enabled {
		return
	}
	e.enabled = on
	if !on {
		if e.cursor != nil {
			e.dropCursor()
		}
		e.queue = nil
		for id := range e.pending {
			delete(e.pending, id)
		}
		for _, b := range e.docs {
			b.cps.Clear()
			b.frontier = 0
			b.shifted = false
			b.state = stateUnhighlighted
			b.styles.Replace(0, b.styles.Len(), defaultTags(b.text.Len()))
			e.host.RequestRedrawIfActive(b.id)
		}
		return
	}
	for _, b := range e.docs {
		if b.syntax != nil {
			e.scheduleInitial(b)
		}
	}
}

// scheduleInitial runs the first highlight of a document: synchronously
// for small files, chunked for large ones.
func (e *Engine) scheduleInitial(b *binding) {
	if b.text.LineCount() > e.tuning.LargeFileThreshold {
		e.enqueueChunked(b)
		return
	}
	tags, cps := e.hl.Full(b.text.Bytes(), b.syntax, e.theme)
	b.styles.Replace(0, b.styles.Len(), tags)
	b.cps = *cps
	b.frontier = cps.LineCount()
	b.state = stateFullyCached
	b.seenLines = cps.LineCount()
	b.shifted = false
	e.bindStylesIfChanged(b.id)
	e.host.RequestRedrawIfActive(b.id)
}

// incremental re-highlights from the checkpoint nearest the edit until
// the recomputed states converge with the cached ones, or EOF.
func (e *Engine) incremental(b *binding, editPos int) {
	if b.cps.Len() == 0 {
		e.scheduleInitial(b)
		return
	}
	interval := e.hl.Interval()
	editLine := b.text.LineAt(editPos)

	if b.state == statePartiallyCached && editLine >= b.frontier {
		// The cached prefix says nothing about the edited region. Keep
		// the checkpoints that still hold and restart the chunked pass
		// from there.
		idx, _ := b.cps.NearestBefore(editLine, interval)
		b.cps.Truncate(idx + 1)
		e.enqueueChunked(b)
		return
	}

	if b.state == stateQueued {
		// The queued pass restyles from its last checkpoint; just make
		// sure that checkpoint sits at or before the edit.
		idx, _ := b.cps.NearestBefore(editLine, interval)
		b.cps.Truncate(idx + 1)
		return
	}

	cpIdx, startLine := b.cps.NearestBefore(editLine, interval)

	if b.shifted {
		// The edit moved lines, so the cached states past it no longer
		// sit on their checkpoint lines. Converging onto them would
		// later resume a pass with a state recorded for a different
		// line. Drop them and rebuild from the edit instead, chunked
		// when the file is large.
		b.cps.Truncate(cpIdx + 1)
		if b.text.LineCount() > e.tuning.LargeFileThreshold {
			b.frontier = startLine
			e.enqueueChunked(b)
			return
		}
	}

	ps, hs := b.cps.At(cpIdx)
	byteStart := b.text.LineStart(startLine)
	sc := NewLineScannerAt(b.text.Bytes(), byteStart)

	var tags []byte
	line := startLine
	converged := false
	for {
		lb, ok := sc.Next()
		if !ok {
			break
		}
		lt, nps, nhs := e.hl.Line(lb, ps, hs)
		tags = append(tags, lt...)
		ps, hs = nps, nhs
		line++
		if line%interval == 0 {
			next := line / interval
			if next < b.cps.Len() {
				sp, sh := b.cps.At(next)
				if ps.Equal(sp) && hs.Equal(sh) {
					// Downstream states re-synced: the remaining
					// checkpoints and styles are already correct.
					converged = true
					break
				}
				b.cps.Set(next, ps, hs)
			} else {
				b.cps.Push(ps, hs)
			}
		}
	}
	if !converged {
		count := (line + interval - 1) / interval
		if count < 1 {
			count = 1
		}
		b.cps.Truncate(count)
		b.cps.SetLineCount(line)
		b.frontier = line
		b.state = stateFullyCached
		b.seenLines = line
		b.shifted = false
	}

	b.styles.Replace(byteStart, byteStart+len(tags), tags)
	e.bindStylesIfChanged(b.id)
	e.host.RequestRedrawIfActive(b.id)
}

// enqueueChunked starts a chunked pass for b, or queues b behind the
// document already being processed.
func (e *Engine) enqueueChunked(b *binding) {
	if e.cursor == nil {
		e.startCursor(b)
		return
	}
	if e.cursor.doc == b.id {
		return
	}
	for _, id := range e.queue {
		if id == b.id {
			b.state = stateQueued
			return
		}
	}
	e.queue = append(e.queue, b.id)
	b.state = stateQueued
}

// startCursor begins (or resumes) the chunked pass for b. A binding
// with partial checkpoints resumes from its last checkpoint instead of
// line zero.
func (e *Engine) startCursor(b *binding) {
	snapshot := append([]byte(nil), b.text.Bytes()...)
	cur := &chunkCursor{doc: b.id, syntax: b.syntax, snapshot: snapshot}
	if b.cps.Len() > 0 {
		idx := b.cps.Len() - 1
		cur.parse, cur.hl = b.cps.At(idx)
		cur.nextLine = idx * e.hl.Interval()
		cur.byteOff = b.text.LineStart(cur.nextLine)
		cur.cps.parse = append([]grammar.ParseState(nil), b.cps.parse[:idx]...)
		cur.cps.hl = append([]grammar.HighlightState(nil), b.cps.hl[:idx]...)
	} else {
		cur.parse = grammar.NewParseState(b.syntax)
		cur.hl = grammar.NewHighlightState(e.theme)
	}
	cur.sc = NewLineScannerAt(snapshot, cur.byteOff)
	b.state = stateInChunked
	e.cursor = cur
	e.host.ShowProgressBanner("Highlighting large file...")
	e.host.PostDeferred(0, Token{kind: tokenChunk, doc: b.id})
}

// chunkTick advances the chunked pass by one chunk of lines, then
// either reposts itself or finalizes.
func (e *Engine) chunkTick(doc DocumentID) {
	cur := e.cursor
	if cur == nil || cur.doc != doc {
		// Stale token from a cancelled pass.
		return
	}
	b := e.docs[doc]
	if b == nil {
		// Document closed mid-flight.
		e.dropCursor()
		e.advanceQueue()
		return
	}

	res := e.hl.Range(cur.sc, cur.nextLine, e.tuning.ChunkSize, cur.parse, cur.hl, &cur.cps)
	if len(res.Tags) > 0 {
		b.styles.Replace(cur.byteOff, cur.byteOff+len(res.Tags), res.Tags)
	}
	cur.byteOff += len(res.Tags)
	cur.nextLine += res.Lines
	cur.parse, cur.hl = res.Parse, res.Highlight
	e.bindStylesIfChanged(doc)
	e.host.RequestRedrawIfActive(doc)

	if res.Lines < e.tuning.ChunkSize {
		if cur.cps.Len() == 0 {
			cur.cps.Push(grammar.NewParseState(b.syntax), grammar.NewHighlightState(e.theme))
		}
		b.cps = cur.cps
		b.cps.SetLineCount(cur.nextLine)
		b.frontier = cur.nextLine
		b.state = stateFullyCached
		b.seenLines = cur.nextLine
		b.shifted = false
		e.dropCursor()
		e.advanceQueue()
		return
	}
	e.host.PostDeferred(0, Token{kind: tokenChunk, doc: doc})
}

// cancelCursor stops the chunked pass because its document was edited,
// keeping the progress so the debounced re-highlight can resume from
// the partial checkpoints.
func (e *Engine) cancelCursor(b *binding) {
	cur := e.cursor
	b.cps = cur.cps
	b.cps.SetLineCount(cur.nextLine)
	b.frontier = cur.nextLine
	b.state = statePartiallyCached
	e.dropCursor()
	e.advanceQueue()
}

func (e *Engine) dropCursor() {
	e.cursor = nil
	e.host.HideProgressBanner()
}

func (e *Engine) advanceQueue() {
	for len(e.queue) > 0 {
		id := e.queue[0]
		e.queue = e.queue[1:]
		b := e.docs[id]
		if b == nil || b.syntax == nil {
			continue
		}
		e.startCursor(b)
		return
	}
}

func (e *Engine) removeQueued(id DocumentID) {
	for i, q := range e.queue {
		if q == id {
			e.queue = append(e.queue[:i], e.queue[i+1:]...)
			return
		}
	}
}

func (e *Engine) bindStylesIfChanged(id DocumentID) {
	if e.styles.Changed() {
		e.host.BindStyleTable(id, e.styles.Entries())
		e.styles.ClearChanged()
	}
}

func defaultTags(n int) []byte {
	if n <= 0 {
		return nil
	}
	return bytes.Repeat([]byte{DefaultTag}, n)
}

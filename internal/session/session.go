// Package session persists editor state between runs: per-file cursor
// and scroll positions, the active file, and the last selected theme.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileState is the remembered view of a single file. Cursor is a byte
// offset; positions past the file's current end clamp on restore.
type FileState struct {
	Cursor int `json:"cursor"`
	Scroll int `json:"scroll"`
}

// Session is the complete persisted state.
type Session struct {
	Files      map[string]FileState `json:"files"`
	ActiveFile string               `json:"active_file,omitempty"`
	Theme      string               `json:"theme,omitempty"`
	LastSaved  time.Time            `json:"last_saved"`
}

// Manager loads the session on startup, hands out per-file state, and
// autosaves while the editor runs. Safe for use from the autosave
// goroutine and the event loop.
type Manager struct {
	mu       sync.RWMutex
	session  Session
	path     string
	dirty    bool
	stopChan chan struct{}
}

func NewManager() (*Manager, error) {
	path, err := sessionPath()
	if err != nil {
		return nil, err
	}
	m := &Manager{
		session:  Session{Files: make(map[string]FileState)},
		path:     path,
		stopChan: make(chan struct{}),
	}
	m.load()
	go m.autosaveLoop()
	return m, nil
}

func sessionPath() (string, error) {
	stateDir := os.Getenv("FERRISPAD_STATE_HOME")
	if stateDir == "" {
		stateDir = os.Getenv("XDG_STATE_HOME")
	}
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	dir := filepath.Join(stateDir, "ferrispad")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}

func (m *Manager) load() {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return
	}
	if s.Files == nil {
		s.Files = make(map[string]FileState)
	}
	m.session = s
}

// Save writes the session to disk if anything changed.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.dirty {
		return nil
	}
	m.session.LastSaved = time.Now()
	data, err := json.MarshalIndent(m.session, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return err
	}
	m.dirty = false
	return nil
}

// FileState returns the remembered state for an absolute path.
func (m *Manager) FileState(absPath string) (FileState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.session.Files[absPath]
	return s, ok
}

// SetFileState records the state for an absolute path and makes it the
// active file.
func (m *Manager) SetFileState(absPath string, s FileState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.Files[absPath] = s
	m.session.ActiveFile = absPath
	m.dirty = true
}

// ActiveFile returns the last active file path.
func (m *Manager) ActiveFile() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.ActiveFile
}

// Theme returns the remembered theme name.
func (m *Manager) Theme() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Theme
}

// SetTheme records the selected theme.
func (m *Manager) SetTheme(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session.Theme != name {
		m.session.Theme = name
		m.dirty = true
	}
}

func (m *Manager) autosaveLoop() {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			_ = m.Save()
		case <-m.stopChan:
			return
		}
	}
}

// Stop ends the autosave loop and flushes the final state.
func (m *Manager) Stop() {
	close(m.stopChan)
	m.mu.Lock()
	m.dirty = true
	m.mu.Unlock()
	_ = m.Save()
}

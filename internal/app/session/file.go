package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// File persists the credential as JSON on disk so it survives restarts of
// the CLI the same way browser storage survives page reloads.
type File struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

type fileState struct {
	Session
	Generation uint64 `json:"generation"`
}

func NewFile(path string, logger *zap.Logger) *File {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &File{path: path, logger: logger}
}

// DefaultPath returns the per-user location of the CLI session file.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "shroomlab", "session.json")
}

func (f *File) Path() string {
	return f.path
}

func (f *File) Read() (Session, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	st := f.load()
	if !st.Valid() {
		return Session{}, false
	}
	return st.Session, true
}

func (f *File) Write(s Session) {
	f.mu.Lock()
	defer f.mu.Unlock()

	st := f.load()
	st.Session = s
	st.Generation++
	f.store(st)
}

func (f *File) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()

	st := f.load()
	if st.Session == (Session{}) {
		return
	}
	st.Session = Session{}
	st.Generation++
	f.store(st)
}

func (f *File) Generation() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load().Generation
}

func (f *File) load() fileState {
	var st fileState
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			f.logger.Warn("Failed to read session file", zap.String("path", f.path), zap.Error(err))
		}
		return st
	}
	if err := json.Unmarshal(data, &st); err != nil {
		f.logger.Warn("Ignoring corrupt session file", zap.String("path", f.path), zap.Error(err))
		return fileState{}
	}
	return st
}

func (f *File) store(st fileState) {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		f.logger.Error("Failed to create session directory", zap.String("path", f.path), zap.Error(err))
		return
	}
	data, err := json.Marshal(st)
	if err != nil {
		f.logger.Error("Failed to encode session", zap.Error(err))
		return
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		f.logger.Error("Failed to write session file", zap.String("path", tmp), zap.Error(err))
		return
	}
	if err := os.Rename(tmp, f.path); err != nil {
		f.logger.Error("Failed to replace session file", zap.String("path", f.path), zap.Error(err))
	}
}

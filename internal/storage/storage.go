// Package storage provides the small durable key-value store that holds
// favorites and display preferences between runs.
package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Keys used by geckobrowser. They keep the names the browser front end used
// so exported state stays recognisable.
const (
	KeyFavorites = "galacticGecko_favorites"
	KeyLastPage  = "galacticGecko_lastPage"
	KeyColumns   = "galacticGecko_columns"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store closed")

// Store is a durable string key-value store.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(key string) (string, bool, error)
	// Set writes value for key durably before returning.
	Set(key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open opens the store for backend inside dir.
func Open(backend, dir string, log zerolog.Logger) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		f, err := OpenFile(filepath.Join(dir, "state.json"))
		if err != nil {
			return nil, err
		}
		if aside := f.Recovered(); aside != "" {
			log.Warn().Str("path", f.Path()).Str("moved_to", aside).Msg("state file was corrupt, starting fresh")
		}
		return f, nil
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dir, "state.db"))
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q (want file, sqlite or memory)", backend)
	}
}

// Memory is an in-process Store, used for tests and --store=memory.
type Memory struct {
	mu     sync.Mutex
	data   map[string]string
	closed bool
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", false, ErrClosed
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.data[key] = value
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.data, key)
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

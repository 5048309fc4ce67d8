// Package prefs stores small cosmetic preferences: the grid column count and
// the last page viewed.
package prefs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"geckobrowser/internal/storage"
)

// Accepted column counts.
const (
	MinColumns     = 1
	MaxColumns     = 10
	DefaultColumns = 5
)

// ErrOutOfRange is returned when a preference value is outside its range.
var ErrOutOfRange = errors.New("preference out of range")

// Prefs holds the loaded preferences and writes changes through to store.
type Prefs struct {
	store    storage.Store
	log      zerolog.Logger
	columns  int
	lastPage int
}

// Load reads preferences, keeping defaults for anything missing, unreadable
// or out of range.
func Load(store storage.Store, log zerolog.Logger) *Prefs {
	p := &Prefs{store: store, log: log, columns: DefaultColumns, lastPage: 1}

	if n, ok := p.readInt(storage.KeyColumns); ok {
		if n >= MinColumns && n <= MaxColumns {
			p.columns = n
		} else {
			log.Warn().Int("columns", n).Msg("ignoring out-of-range column preference")
		}
	}
	if n, ok := p.readInt(storage.KeyLastPage); ok && n >= 1 {
		p.lastPage = n
	}
	return p
}

func (p *Prefs) readInt(key string) (int, bool) {
	raw, ok, err := p.store.Get(key)
	if err != nil {
		p.log.Warn().Err(err).Str("key", key).Msg("could not read preference")
		return 0, false
	}
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		p.log.Warn().Str("key", key).Str("value", raw).Msg("ignoring unreadable preference")
		return 0, false
	}
	return n, true
}

// Columns returns the grid column count.
func (p *Prefs) Columns() int { return p.columns }

// SetColumns validates and persists the column count. The value in memory
// only changes once the write succeeds.
func (p *Prefs) SetColumns(n int) error {
	if n < MinColumns || n > MaxColumns {
		return fmt.Errorf("%w: columns must be %d-%d, got %d", ErrOutOfRange, MinColumns, MaxColumns, n)
	}
	if err := p.store.Set(storage.KeyColumns, strconv.Itoa(n)); err != nil {
		return err
	}
	p.columns = n
	return nil
}

// LastPage returns the page viewed when the previous session ended. Callers
// clamp it against the current view.
func (p *Prefs) LastPage() int { return p.lastPage }

// SetLastPage persists the current page. A failed write leaves the old value
// so the next call retries.
func (p *Prefs) SetLastPage(page int) error {
	if page < 1 {
		return fmt.Errorf("%w: page %d", ErrOutOfRange, page)
	}
	if page == p.lastPage {
		return nil
	}
	if err := p.store.Set(storage.KeyLastPage, strconv.Itoa(page)); err != nil {
		return err
	}
	p.lastPage = page
	return nil
}

package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geckobrowser/internal/model"
)

func loadFixture(t *testing.T) *Catalog {
	t.Helper()
	c, err := LoadFile(filepath.Join("testdata", "geckos.json"), zerolog.Nop())
	require.NoError(t, err)
	return c
}

func TestParseFixture(t *testing.T) {
	c := loadFixture(t)
	require.Equal(t, 3, c.Len())

	first, err := c.At(0)
	require.NoError(t, err)
	assert.Equal(t, 101, first.ID)
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, 3, first.Rank)
	assert.Equal(t, "Rebel", first.Traits.Value(model.Faction))
	assert.Equal(t, model.NoneValue, first.Traits.Value(model.Eyes))
	assert.Equal(t, "", first.Traits.Value(model.Helmet), "absent category stays empty")

	faction, ok := first.Traits.Get(model.Faction)
	require.True(t, ok)
	require.NotNil(t, faction.Rarity)
	assert.InDelta(t, 40.5, *faction.Rarity, 0.001)

	eyes, _ := first.Traits.Get(model.Eyes)
	require.NotNil(t, eyes.Rarity)
	assert.InDelta(t, 12.5, *eyes.Rarity, 0.001)

	assert.Len(t, first.Attributes, 3, "unknown category is dropped")
}

func TestStringIDsAreNormalized(t *testing.T) {
	c := loadFixture(t)
	it, err := c.ByID(102)
	require.NoError(t, err)
	assert.Equal(t, "Galactic Gecko #2", it.Name)
	assert.Equal(t, 2, it.Number)
}

func TestNameWithoutNumber(t *testing.T) {
	c := loadFixture(t)
	it, err := c.ByID(103)
	require.NoError(t, err)
	assert.Equal(t, 0, it.Number)
	assert.Empty(t, it.Attributes)
}

func TestLookups(t *testing.T) {
	c := loadFixture(t)

	_, err := c.ByID(999)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.At(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = c.At(3)
	assert.ErrorIs(t, err, ErrOutOfRange)

	assert.True(t, c.Contains(101))
	assert.False(t, c.Contains(1))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{{`},
		{"missing result", `{"data":{"items":[]}}`},
		{"missing data", `{"result":{}}`},
		{"missing items", `{"result":{"data":{}}}`},
		{"null items", `{"result":{"data":{"items":null}}}`},
		{"items not a list", `{"result":{"data":{"items":{}}}}`},
		{"bad id", `{"result":{"data":{"items":[{"id":"abc"}]}}}`},
		{"duplicate ids", `{"result":{"data":{"items":[{"id":1},{"id":"1"}]}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), zerolog.Nop())
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestEmptyItemsIsValid(t *testing.T) {
	c, err := Parse([]byte(`{"result":{"data":{"items":[]}}}`), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, ErrLoad)
}

func TestFetch(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "geckos.json"))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/geckos.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	c, err := Load(context.Background(), srv.URL+"/geckos.json")
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())

	_, err = Fetch(context.Background(), srv.Client(), srv.URL+"/missing.json")
	assert.ErrorIs(t, err, ErrLoad)
}

package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"geckobrowser/internal/logging"
)

// maxDocumentSize bounds how much of a remote document is read.
const maxDocumentSize = 256 << 20

// Load reads source, which is either a local path or an http(s) URL, and
// parses it. The catalog is returned fully populated or not at all.
func Load(ctx context.Context, source string) (*Catalog, error) {
	log := logging.FromContext(ctx)

	var (
		data []byte
		err  error
	)
	if isURL(source) {
		data, err = fetch(ctx, http.DefaultClient, source)
	} else {
		data, err = readFile(source)
	}
	if err != nil {
		log.Error().Err(err).Str("source", source).Msg("failed to load gecko data")
		return nil, err
	}

	c, err := Parse(data, *log)
	if err != nil {
		log.Error().Err(err).Str("source", source).Msg("failed to parse gecko data")
		return nil, err
	}
	log.Info().Str("source", source).Int("items", c.Len()).Msg("catalog loaded")
	return c, nil
}

// LoadFile reads and parses a local data file.
func LoadFile(path string, log zerolog.Logger) (*Catalog, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, log)
}

// Fetch performs the single GET for a remote data file and parses it.
func Fetch(ctx context.Context, client *http.Client, url string) (*Catalog, error) {
	if client == nil {
		client = http.DefaultClient
	}
	data, err := fetch(ctx, client, url)
	if err != nil {
		return nil, err
	}
	return Parse(data, *logging.FromContext(ctx))
}

func isURL(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	return data, nil
}

func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrLoad, resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	return data, nil
}

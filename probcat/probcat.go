package probcat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Problem is one entry of the judge's problem catalog.
type Problem struct {
	Id         string `json:"id"`
	Title      string `json:"title"`
	Difficulty int    `json:"difficulty"`
	MaxScore   int    `json:"max_score"`
}

type catalogFile struct {
	Problems []Problem `json:"problems"`
}

// Fetch downloads the judge's problem catalog. The payload is
// a zstd-compressed JSON document.
func Fetch(ctx context.Context, url string) ([]Problem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch problem catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	dec, err := zstd.NewReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer dec.Close()

	var file catalogFile
	err = json.NewDecoder(dec.IOReadCloser()).Decode(&file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode problem catalog: %w", err)
	}
	return file.Problems, nil
}

// Catalog caches the fetched problem list for a fixed period
// so repeated lookups do not re-download the bulk dataset.
type Catalog struct {
	logger *slog.Logger
	url    string
	ttl    time.Duration

	lock      sync.Mutex
	problems  []Problem
	fetchedAt time.Time
}

func NewCatalog(logger *slog.Logger, url string) *Catalog {
	return &Catalog{
		logger: logger,
		url:    url,
		ttl:    10 * time.Minute,
	}
}

// Problems returns the cached catalog, refreshing it when the
// cache has expired. A failed refresh falls back to the stale
// copy when one exists.
func (c *Catalog) Problems(ctx context.Context) ([]Problem, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.problems != nil && time.Since(c.fetchedAt) < c.ttl {
		return c.problems, nil
	}

	problems, err := Fetch(ctx, c.url)
	if err != nil {
		if c.problems != nil {
			c.logger.Warn(
				"catalog refresh failed, serving stale copy",
				"error", err,
			)
			return c.problems, nil
		}
		return nil, err
	}
	c.problems = problems
	c.fetchedAt = time.Now()
	return c.problems, nil
}

// ById looks a problem up in the catalog.
func (c *Catalog) ById(ctx context.Context, id string) (Problem, bool, error) {
	problems, err := c.Problems(ctx)
	if err != nil {
		return Problem{}, false, err
	}
	for _, p := range problems {
		if p.Id == id {
			return p, true, nil
		}
	}
	return Problem{}, false, nil
}

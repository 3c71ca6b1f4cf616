package testutil

import (
	"context"
	"sync"

	"github.com/preston-bernstein/swish-service/internal/domain/players"
)

// ScriptedFetcher replays queued results from Generate, repeating the last one.
// It satisfies card.Fetcher.
type ScriptedFetcher struct {
	mu      sync.Mutex
	results []FetchResult
	calls   int
}

// FetchResult is one scripted Generate outcome.
type FetchResult struct {
	Record players.Record
	Err    error
}

// NewScriptedFetcher queues results in order.
func NewScriptedFetcher(results ...FetchResult) *ScriptedFetcher {
	return &ScriptedFetcher{results: results}
}

// Generate returns the next scripted result.
func (f *ScriptedFetcher) Generate(ctx context.Context) (players.Record, error) {
	if err := ctx.Err(); err != nil {
		return players.Record{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.results) == 0 {
		return players.Record{}, players.ErrNoPlayers
	}
	res := f.results[0]
	if len(f.results) > 1 {
		f.results = f.results[1:]
	}
	return res.Record, res.Err
}

// Calls reports how many times Generate ran.
func (f *ScriptedFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

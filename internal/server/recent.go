package server

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"cadparse/internal/pipeline"
)

// RecentResults is a bounded in-memory buffer of recently produced parse
// results, keyed by the per-request id. It exists for replay/debugging of a
// caller's last few requests; it is not persistence and nothing in the
// pipeline reads from it.
type RecentResults struct {
	cache *lru.Cache[string, pipeline.State]
}

func NewRecentResults(size int) (*RecentResults, error) {
	if size <= 0 {
		size = 128
	}
	c, err := lru.New[string, pipeline.State](size)
	if err != nil {
		return nil, err
	}
	return &RecentResults{cache: c}, nil
}

func (r *RecentResults) Add(id string, st pipeline.State) {
	r.cache.Add(id, st)
}

func (r *RecentResults) Get(id string) (pipeline.State, bool) {
	return r.cache.Get(id)
}

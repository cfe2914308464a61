// Package search drives filtered bookmark listings from user input.
//
// Keystrokes are debounced; facet changes fetch immediately. Every dispatch
// takes a generation number and only the newest generation may deliver, so
// a slow response can never overwrite fresher results.
package search

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/MrSnakeDoc/marks/internal/debounce"
	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/logger"
)

// Query is the combined filter state.
type Query struct {
	Folder string
	Tag    string
	Search string
}

// Result is one delivered listing.
type Result struct {
	Generation uint64
	Query      Query
	Bookmarks  []domain.Bookmark
}

// Fetcher loads the listing for q.
type Fetcher func(ctx context.Context, q Query) ([]domain.Bookmark, error)

// Sink receives delivered results. Calls are serialized.
type Sink func(Result)

// Searcher owns the filter state of one listing view.
type Searcher struct {
	fetch Fetcher
	sink  Sink
	log   logger.Logger

	debouncer *debounce.Debouncer[string]

	mu       sync.Mutex
	query    Query
	gen      uint64
	ctx      context.Context
	stop     context.CancelFunc
	inflight context.CancelFunc
	closed   bool

	deliverMu sync.Mutex
	wg        sync.WaitGroup
}

// New returns a Searcher. delay is the keystroke quiet period.
func New(ctx context.Context, clock clockwork.Clock, delay time.Duration, fetch Fetcher, sink Sink, log logger.Logger) *Searcher {
	if log == nil {
		log = logger.NewNop()
	}
	s := &Searcher{fetch: fetch, sink: sink, log: log}
	s.ctx, s.stop = context.WithCancel(ctx)
	s.debouncer = debounce.New(clock, delay, func(q string) {
		s.mu.Lock()
		s.query.Search = q
		s.mu.Unlock()
		s.dispatch()
	})
	return s
}

// SetQuery records a keystroke. The fetch happens after the quiet period.
func (s *Searcher) SetQuery(q string) {
	s.debouncer.Schedule(q)
}

// Flush sends a pending typed query now. Used when input ends.
func (s *Searcher) Flush() {
	s.debouncer.Flush()
}

// SetFolder switches the folder facet and fetches immediately.
func (s *Searcher) SetFolder(folder string) {
	s.mu.Lock()
	s.query.Folder = folder
	s.mu.Unlock()
	s.dispatch()
}

// SetTag switches the tag facet and fetches immediately.
func (s *Searcher) SetTag(tag string) {
	s.mu.Lock()
	s.query.Tag = tag
	s.mu.Unlock()
	s.dispatch()
}

// Refresh refetches with the current filters.
func (s *Searcher) Refresh() {
	s.dispatch()
}

// Query returns the current filter state.
func (s *Searcher) Query() Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Wait blocks until every dispatched fetch has finished, including one a
// quiet period that just elapsed is about to dispatch.
func (s *Searcher) Wait() {
	s.debouncer.Wait()
	s.wg.Wait()
}

// Close cancels the pending keystroke and any in-flight fetch.
func (s *Searcher) Close() {
	s.debouncer.Cancel()

	s.mu.Lock()
	s.closed = true
	s.gen++
	s.stop()
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Searcher) dispatch() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.inflight != nil {
		s.inflight()
	}
	s.gen++
	gen := s.gen
	q := s.query
	ctx, cancel := context.WithCancel(s.ctx)
	s.inflight = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer cancel()

		bookmarks, err := s.fetch(ctx, q)
		if !s.current(gen) {
			s.log.Debug("search result superseded", logger.Int64("generation", int64(gen)))
			return
		}
		if err != nil {
			s.log.Warn("search failed",
				logger.String("search", q.Search),
				logger.String("folder", q.Folder),
				logger.String("tag", q.Tag),
				logger.Error(err))
			bookmarks = []domain.Bookmark{}
		}
		s.deliver(gen, Result{Generation: gen, Query: q, Bookmarks: bookmarks})
	}()
}

func (s *Searcher) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.gen
}

func (s *Searcher) deliver(gen uint64, r Result) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	if !s.current(gen) {
		return
	}
	s.sink(r)
}

// OwnerFetcher lists the caller's bookmarks.
func OwnerFetcher(b BookmarkLister) Fetcher {
	return func(ctx context.Context, q Query) ([]domain.Bookmark, error) {
		return b.List(ctx, domain.Filters{Folder: q.Folder, Tag: q.Tag, Search: q.Search})
	}
}

// PublicFetcher lists the public feed. Folder is ignored.
func PublicFetcher(p PublicLister, limit int) Fetcher {
	return func(ctx context.Context, q Query) ([]domain.Bookmark, error) {
		return p.Bookmarks(ctx, domain.PublicFilters{Tag: q.Tag, Search: q.Search, Limit: limit})
	}
}

// BookmarkLister is satisfied by *api.BookmarksAPI.
type BookmarkLister interface {
	List(ctx context.Context, f domain.Filters) ([]domain.Bookmark, error)
}

// PublicLister is satisfied by *api.PublicAPI.
type PublicLister interface {
	Bookmarks(ctx context.Context, f domain.PublicFilters) ([]domain.Bookmark, error)
}

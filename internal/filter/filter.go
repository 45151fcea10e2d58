// Package filter drives the live filter bar of the list pages.
//
// Every keystroke produces one filter request. Responses can come back out
// of order, so each request takes a sequence number from a Sequencer keyed
// by the page's view token; only the response to the newest request for
// that token may repaint the table.
package filter

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/aanand-mishra/theater-records/internal/loader"
	"github.com/aanand-mishra/theater-records/internal/view"
)

// ErrStale is returned when a newer request for the same view has been
// issued while this one was in flight.
var ErrStale = errors.New("filter: superseded by a newer request")

// Selector names the column a search is scoped to and, for joined queries,
// the alias of the table the column belongs to.
type Selector struct {
	Column string
	Table  string
}

// ParseSelector reads an option value of the form "column" or
// "column,alias". Values are not validated; the backend owns the whitelist.
func ParseSelector(v string) Selector {
	col, table, _ := strings.Cut(v, ",")
	return Selector{Column: strings.TrimSpace(col), Table: strings.TrimSpace(table)}
}

// String is the inverse of ParseSelector.
func (s Selector) String() string {
	if s.Table == "" {
		return s.Column
	}
	return s.Column + "," + s.Table
}

// Query is a filter request.
type Query struct {
	Selector
	Value string
}

// Empty reports whether there is nothing to filter by. An empty query shows
// the unfiltered list.
func (q Query) Empty() bool { return strings.TrimSpace(q.Value) == "" }

// Values encodes the query as filterBy parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Column != "" {
		v.Set("column", q.Column)
	}
	v.Set("value", q.Value)
	if q.Table != "" {
		v.Set("page", q.Table)
	}
	return v
}

// FilterBy returns the filtered endpoint builder for /{entity}/filterBy.
func FilterBy(entity string) func(Query) string {
	return func(q Query) string {
		return "/" + entity + "/filterBy?" + q.Values().Encode()
	}
}

// Endpoints are the unfiltered and filtered sources of one table.
type Endpoints struct {
	All      string
	Filtered func(Query) string
}

// Endpoint picks the endpoint for q.
func (e Endpoints) Endpoint(q Query) string {
	if q.Empty() || e.Filtered == nil {
		return e.All
	}
	return e.Filtered(q)
}

// Sequencer hands out increasing sequence numbers per view token.
type Sequencer struct {
	mu     sync.Mutex
	latest map[string]entry
	ttl    time.Duration
	now    func() time.Time
}

type entry struct {
	seq  uint64
	seen time.Time
}

// NewSequencer keeps a token's counter for ttl after its last request.
func NewSequencer(ttl time.Duration) *Sequencer {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Sequencer{latest: make(map[string]entry), ttl: ttl, now: time.Now}
}

// Next issues the next sequence number for token.
func (s *Sequencer) Next(token string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.latest {
		if now.Sub(e.seen) > s.ttl {
			delete(s.latest, k)
		}
	}

	e := s.latest[token]
	e.seq++
	e.seen = now
	s.latest[token] = e
	return e.seq
}

// IsLatest reports whether seq is still the newest number issued for token.
func (s *Sequencer) IsLatest(token string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[token].seq == seq
}

// Controller runs filter queries against a page table.
type Controller struct {
	loader *loader.Loader
	seq    *Sequencer
}

// NewController builds a Controller.
func NewController(l *loader.Loader, seq *Sequencer) *Controller {
	if seq == nil {
		seq = NewSequencer(0)
	}
	return &Controller{loader: l, seq: seq}
}

// Apply issues one request for q and repaints tableID with the result.
// An empty token disables sequencing. When a newer request for the same
// token was issued meanwhile the page is left alone and ErrStale returned.
// A failed request clears the table and returns the error.
func (c *Controller) Apply(ctx context.Context, p *view.Page, token, tableID string, ep Endpoints, q Query, build view.RowBuilder) error {
	var seq uint64
	if token != "" {
		seq = c.seq.Next(token)
	}

	records, err := c.loader.Fetch(ctx, ep.Endpoint(q))

	if token != "" && !c.seq.IsLatest(token, seq) {
		return ErrStale
	}
	if err != nil {
		view.Populate(p, tableID, nil, build)
		return err
	}

	view.Populate(p, tableID, records, build)
	return nil
}

package pagination

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/trackinventory/internal/logging"
)

// Query is the page request handed to a Source.
type Query struct {
	Skip int
	Take int
	// Days limits results to the last N days; nil means no window.
	Days *int
}

// Page is one page of results.
type Page[T any] struct {
	Items      []T
	TotalCount int
}

type Source[T any] interface {
	Fetch(ctx context.Context, q Query) (Page[T], error)
}

// SourceFunc adapts a function to Source.
type SourceFunc[T any] func(ctx context.Context, q Query) (Page[T], error)

func (f SourceFunc[T]) Fetch(ctx context.Context, q Query) (Page[T], error) {
	return f(ctx, q)
}

// State is a point-in-time copy of a Fetcher.
type State[T any] struct {
	Items            []T
	Cursor           int
	PageSize         int
	HasMore          bool
	IsInitialLoading bool
	IsLoadingMore    bool
	Err              error
	Days             *int
}

type loadKind int

const (
	idle loadKind = iota
	loadInitial
	loadMore
)

type Fetcher[T any] struct {
	source   Source[T]
	pageSize int
	log      logging.Logger

	mu      sync.Mutex
	days    *int
	items   []T
	cursor  int
	hasMore bool
	loading loadKind
	err     error
	// gen is bumped by Refresh; a fetch that started under an older gen is
	// stale.
	gen     uint64
	pending bool
}

type Option func(*options)

type options struct {
	days *int
	log  logging.Logger
}

// WithWindow sets the initial "last N days" filter.
func WithWindow(days int) Option {
	return func(o *options) { o.days = &days }
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

// New returns an empty Fetcher. No request is issued until Refresh or
// LoadMore. pageSize values below 1 are treated as 1.
func New[T any](source Source[T], pageSize int, opts ...Option) *Fetcher[T] {
	o := options{log: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if pageSize < 1 {
		pageSize = 1
	}
	return &Fetcher[T]{
		source:   source,
		pageSize: pageSize,
		log:      o.log,
		days:     o.days,
		items:    []T{},
		hasMore:  true,
	}
}

// Refresh discards the list and fetches page one as an initial load. If a
// fetch is already in flight, Refresh returns nil immediately and the running
// call performs the reload.
func (f *Fetcher[T]) Refresh(ctx context.Context) error {
	f.mu.Lock()
	f.reset()
	if f.loading != idle {
		f.gen++
		f.pending = true
		f.loading = loadInitial
		f.mu.Unlock()
		f.log.Debug(ctx, "refresh deferred behind in-flight fetch")
		return nil
	}
	return f.run(ctx, loadInitial)
}

// LoadMore fetches the next page and appends it. It returns nil without
// fetching when a fetch is in flight or the list is exhausted.
func (f *Fetcher[T]) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	if f.loading != idle || !f.hasMore {
		f.mu.Unlock()
		return nil
	}
	kind := loadMore
	if f.cursor == 0 && len(f.items) == 0 {
		kind = loadInitial
	}
	return f.run(ctx, kind)
}

// SetWindow changes the "last N days" filter (nil clears it) and refreshes.
func (f *Fetcher[T]) SetWindow(ctx context.Context, days *int) error {
	f.mu.Lock()
	if days != nil {
		d := *days
		days = &d
	}
	f.days = days
	f.mu.Unlock()
	return f.Refresh(ctx)
}

// Snapshot returns a copy of the current state.
func (f *Fetcher[T]) Snapshot() State[T] {
	f.mu.Lock()
	defer f.mu.Unlock()

	var days *int
	if f.days != nil {
		d := *f.days
		days = &d
	}
	return State[T]{
		Items:            slices.Clone(f.items),
		Cursor:           f.cursor,
		PageSize:         f.pageSize,
		HasMore:          f.hasMore,
		IsInitialLoading: f.loading == loadInitial,
		IsLoadingMore:    f.loading == loadMore,
		Err:              f.err,
		Days:             days,
	}
}

func (f *Fetcher[T]) reset() {
	f.items = []T{}
	f.cursor = 0
	f.hasMore = true
	f.err = nil
}

// run performs fetches until one lands that has not been superseded. It is
// entered with f.mu held and returns with it released.
func (f *Fetcher[T]) run(ctx context.Context, kind loadKind) error {
	for {
		f.loading = kind
		f.err = nil
		gen := f.gen
		q := Query{Skip: f.cursor, Take: f.pageSize, Days: f.days}
		f.mu.Unlock()

		page, err := f.source.Fetch(ctx, q)

		f.mu.Lock()
		if f.gen != gen && f.pending {
			f.pending = false
			f.log.Debug(ctx, "dropping superseded page", "skip", q.Skip)
			kind = loadInitial
			continue
		}
		f.loading = idle

		if err != nil {
			f.err = err
			f.items = []T{}
			f.mu.Unlock()
			f.log.Warn(ctx, "page fetch failed", "skip", q.Skip, "take", q.Take, "error", err)
			return err
		}

		f.items = append(f.items, page.Items...)
		next := f.cursor + f.pageSize
		if page.TotalCount < next {
			// last page: report the server's total rather than overshoot it
			next = max(page.TotalCount, f.cursor)
		}
		f.cursor = next
		f.hasMore = f.cursor < page.TotalCount
		f.mu.Unlock()

		f.log.Debug(ctx, "page fetched", "skip", q.Skip, "received", len(page.Items), "total", page.TotalCount)
		return nil
	}
}

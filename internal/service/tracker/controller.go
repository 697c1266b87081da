package tracker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ShubhamPP04/todo-list/internal/config"
	"github.com/ShubhamPP04/todo-list/internal/domain"
)

type engine interface {
	FetchPage(ctx context.Context, page, pageSize int) PageResult
	CreateRecord(ctx context.Context, input CreateInput) (domain.Record, error)
}

// Controller owns the canonical application state: the merged record set,
// the active query, and the page position. It is the single writer of
// that state; every mutation goes through its methods. Events are
// published synchronously through the Bus, possibly while internal locks
// are held, so handlers must not call back into the Controller.
type Controller struct {
	log      *slog.Logger
	eng      engine
	bus      *Bus
	debounce time.Duration

	mu         sync.Mutex
	pager      *Paginator
	all        []domain.Record
	filtered   []domain.Record
	query      domain.Query
	totalItems int
	degraded   bool

	// generation discards results of superseded loads: the last load
	// requested wins, not the last one to finish.
	generation uint64

	searchTimer *time.Timer
}

// NewController creates a Controller wired to the given engine and bus.
func NewController(logger *slog.Logger, eng engine, cfg config.EngineConfig, bus *Bus) *Controller {
	c := &Controller{
		log:      logger.With("component", "controller"),
		eng:      eng,
		bus:      bus,
		debounce: cfg.SearchDebounce,
	}
	c.pager = NewPaginator(cfg.PageSize, func(change PageChange) {
		bus.Publish(Event{
			Type:       EventPageChanged,
			Page:       change.Page,
			TotalPages: change.TotalPages,
		})
	})
	return c
}

// Load fetches the current page from the merger and replaces the record
// set. The unfiltered total is fed to the paginator without a page reset,
// then the active query is re-applied and the filtered count fed in. A
// load superseded by a newer one is discarded when it lands.
func (c *Controller) Load(ctx context.Context) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	page := c.pager.Page()
	size := c.pager.PageSize()
	c.mu.Unlock()

	correlation := uuid.NewString()
	c.log.InfoContext(ctx, "load started",
		slog.String("correlation_id", correlation), slog.Int("page", page))

	result := c.eng.FetchPage(ctx, page, size)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.log.InfoContext(ctx, "stale load discarded",
			slog.String("correlation_id", correlation))
		return
	}

	c.all = result.Records
	c.totalItems = result.Total
	c.degraded = result.Degraded

	c.pager.UpdateTotal(result.Total, false)
	c.filtered = domain.Filter(c.all, c.query)
	c.pager.UpdateTotal(len(c.filtered), false)

	c.bus.Publish(Event{
		Type:       EventLoadCompleted,
		Page:       c.pager.Page(),
		TotalPages: c.pager.TotalPages(),
		Degraded:   result.Degraded,
		Cause:      result.Cause,
	})
	c.mu.Unlock()

	c.log.InfoContext(ctx, "load completed",
		slog.String("correlation_id", correlation),
		slog.Int("records", len(result.Records)),
		slog.Bool("degraded", result.Degraded),
	)
}

// SetQuery validates and replaces the whole query, re-filters the loaded
// set, and resets to page 1. Invalid queries (inverted date range,
// unknown status) are rejected before any state changes.
func (c *Controller) SetQuery(q domain.Query) error {
	if err := q.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopSearchTimer()
	c.applyQueryLocked(q)
	return nil
}

// SetSearchText updates only the search predicate. Rapid successive
// calls are coalesced: the filter runs once per quiescent period of the
// configured debounce delay.
func (c *Controller) SetSearchText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopSearchTimer()

	if c.debounce <= 0 {
		q := c.query
		q.Search = text
		c.applyQueryLocked(q)
		return
	}

	c.searchTimer = time.AfterFunc(c.debounce, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		q := c.query
		q.Search = text
		c.applyQueryLocked(q)
	})
}

// GoToPage navigates to page n; out-of-range targets are no-ops.
// Returns whether the page changed.
func (c *Controller) GoToPage(n int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pager.GoTo(n)
}

// Create adds a record through the service and appends it to the loaded
// set. The filtered set and paginator are refreshed without a page
// reset, so the creation is visible immediately only if the current page
// would show it.
func (c *Controller) Create(ctx context.Context, input CreateInput) (domain.Record, error) {
	record, err := c.eng.CreateRecord(ctx, input)
	if err != nil {
		return domain.Record{}, err
	}

	c.mu.Lock()
	c.all = append(c.all, record)
	c.totalItems++
	if c.query.Matches(record) {
		c.filtered = append(c.filtered, record)
	}
	c.pager.UpdateTotal(len(c.filtered), false)

	created := record
	c.bus.Publish(Event{
		Type:       EventRecordCreated,
		Page:       c.pager.Page(),
		TotalPages: c.pager.TotalPages(),
		Record:     &created,
	})
	c.mu.Unlock()

	return record, nil
}

// Snapshot returns the render-ready view of the current state.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	start, end := c.pager.Bounds()
	visible := make([]domain.Record, end-start)
	copy(visible, c.filtered[start:end])

	return View{
		Records:        visible,
		Page:           c.pager.Page(),
		TotalPages:     c.pager.TotalPages(),
		PageSize:       c.pager.PageSize(),
		TotalItems:     c.totalItems,
		Degraded:       c.degraded,
		HasPrev:        c.pager.HasPrev(),
		HasNext:        c.pager.HasNext(),
		ShowPagination: c.pager.ShowControls(),
		Filter: FilterStatus{
			Active:  !c.query.IsZero(),
			Matched: len(c.filtered),
			Total:   len(c.all),
		},
	}
}

// Query returns the active query.
func (c *Controller) Query() domain.Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Close cancels any pending debounced search.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopSearchTimer()
}

func (c *Controller) applyQueryLocked(q domain.Query) {
	c.query = q
	c.filtered = domain.Filter(c.all, q)
	c.pager.UpdateTotal(len(c.filtered), true)

	c.bus.Publish(Event{
		Type:       EventQueryChanged,
		Page:       c.pager.Page(),
		TotalPages: c.pager.TotalPages(),
	})
}

func (c *Controller) stopSearchTimer() {
	if c.searchTimer != nil {
		c.searchTimer.Stop()
		c.searchTimer = nil
	}
}

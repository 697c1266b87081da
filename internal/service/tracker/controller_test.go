package tracker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShubhamPP04/todo-list/internal/config"
	"github.com/ShubhamPP04/todo-list/internal/domain"
	"github.com/ShubhamPP04/todo-list/internal/remote"
)

type mockEngine struct {
	fetchPageFn func(ctx context.Context, page, pageSize int) PageResult
	createFn    func(ctx context.Context, input CreateInput) (domain.Record, error)
}

func (m *mockEngine) FetchPage(ctx context.Context, page, pageSize int) PageResult {
	if m.fetchPageFn != nil {
		return m.fetchPageFn(ctx, page, pageSize)
	}
	return PageResult{}
}

func (m *mockEngine) CreateRecord(ctx context.Context, input CreateInput) (domain.Record, error) {
	if m.createFn != nil {
		return m.createFn(ctx, input)
	}
	return domain.Record{}, nil
}

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) record(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *eventRecorder) reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

func (r *eventRecorder) ofType(t EventType) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func newTestController(eng engine, debounce time.Duration) (*Controller, *eventRecorder) {
	bus := NewBus()
	rec := &eventRecorder{}
	bus.Subscribe(rec.record)

	ctrl := NewController(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		eng,
		config.EngineConfig{PageSize: 10, SearchDebounce: debounce},
		bus,
	)
	return ctrl, rec
}

func makeRecords(n int) []domain.Record {
	records := make([]domain.Record, n)
	for i := range records {
		records[i] = domain.Record{
			ID:        int64(i + 1),
			Text:      fmt.Sprintf("task %d", i+1),
			Completed: i%2 == 0,
			CreatedAt: time.Date(2026, time.August, 1+i%28, 0, 0, 0, 0, time.UTC),
			Origin:    domain.OriginRemote,
		}
	}
	return records
}

func TestController_Load(t *testing.T) {
	t.Parallel()

	eng := &mockEngine{
		fetchPageFn: func(ctx context.Context, page, pageSize int) PageResult {
			return PageResult{Records: makeRecords(25), Total: 25}
		},
	}
	ctrl, rec := newTestController(eng, 0)

	ctrl.Load(context.Background())

	view := ctrl.Snapshot()
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, 3, view.TotalPages)
	assert.Equal(t, 25, view.TotalItems)
	assert.Len(t, view.Records, 10)
	assert.False(t, view.Degraded)
	assert.False(t, view.Filter.Active)
	assert.True(t, view.ShowPagination)
	assert.False(t, view.HasPrev)
	assert.True(t, view.HasNext)

	loads := rec.ofType(EventLoadCompleted)
	require.Len(t, loads, 1)
	assert.False(t, loads[0].Degraded)
}

func TestController_Load_Degraded(t *testing.T) {
	t.Parallel()

	eng := &mockEngine{
		fetchPageFn: func(ctx context.Context, page, pageSize int) PageResult {
			return PageResult{
				Records:  makeRecords(3),
				Total:    3,
				Degraded: true,
				Cause:    remote.ErrOffline,
			}
		},
	}
	ctrl, rec := newTestController(eng, 0)

	ctrl.Load(context.Background())

	view := ctrl.Snapshot()
	assert.True(t, view.Degraded)
	assert.Len(t, view.Records, 3)

	loads := rec.ofType(EventLoadCompleted)
	require.Len(t, loads, 1)
	assert.True(t, loads[0].Degraded)
	assert.ErrorIs(t, loads[0].Cause, remote.ErrOffline)
}

func TestController_Load_DegradedPagination(t *testing.T) {
	t.Parallel()

	eng := &mockEngine{
		fetchPageFn: func(ctx context.Context, page, pageSize int) PageResult {
			return PageResult{
				Records:  makeRecords(12),
				Total:    12,
				Degraded: true,
				Cause:    remote.ErrTimeout,
			}
		},
	}
	ctrl, _ := newTestController(eng, 0)

	ctrl.Load(context.Background())

	// 12 local records page into 2 pages of 10; the first page shows 10.
	view := ctrl.Snapshot()
	assert.Equal(t, 12, view.TotalItems)
	assert.Equal(t, 2, view.TotalPages)
	assert.Len(t, view.Records, 10)
	assert.Equal(t, int64(1), view.Records[0].ID)
	assert.True(t, view.HasNext)

	require.True(t, ctrl.GoToPage(2))
	assert.Len(t, ctrl.Snapshot().Records, 2)
}

func TestController_Load_ReappliesActiveQuery(t *testing.T) {
	t.Parallel()

	eng := &mockEngine{
		fetchPageFn: func(ctx context.Context, page, pageSize int) PageResult {
			return PageResult{Records: makeRecords(25), Total: 25}
		},
	}
	ctrl, _ := newTestController(eng, 0)

	require.NoError(t, ctrl.SetQuery(domain.Query{Search: "task 1"}))
	ctrl.Load(context.Background())

	// "task 1": 1, 10-19.
	view := ctrl.Snapshot()
	assert.True(t, view.Filter.Active)
	assert.Equal(t, 11, view.Filter.Matched)
	assert.Equal(t, 25, view.Filter.Total)
	assert.Len(t, view.Records, 10)
	assert.Equal(t, 2, view.TotalPages)
}

func TestController_Load_LastRequestWins(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	firstStarted := make(chan struct{})
	release := make(chan struct{})

	eng := &mockEngine{
		fetchPageFn: func(ctx context.Context, page, pageSize int) PageResult {
			if calls.Add(1) == 1 {
				close(firstStarted)
				<-release
				return PageResult{
					Records: []domain.Record{{ID: 1, Text: "slow stale page"}},
					Total:   1,
				}
			}
			return PageResult{
				Records: []domain.Record{{ID: 2, Text: "fresh page"}},
				Total:   1,
			}
		},
	}
	ctrl, _ := newTestController(eng, 0)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctrl.Load(context.Background())
	}()

	<-firstStarted
	ctrl.Load(context.Background())
	close(release)
	wg.Wait()

	// The superseded load landed last but must not overwrite state.
	view := ctrl.Snapshot()
	require.Len(t, view.Records, 1)
	assert.Equal(t, "fresh page", view.Records[0].Text)
}

func TestController_SetQuery(t *testing.T) {
	t.Parallel()

	eng := &mockEngine{
		fetchPageFn: func(ctx context.Context, page, pageSize int) PageResult {
			return PageResult{Records: makeRecords(25), Total: 25}
		},
	}
	ctrl, rec := newTestController(eng, 0)
	ctrl.Load(context.Background())
	ctrl.GoToPage(3)

	require.NoError(t, ctrl.SetQuery(domain.Query{Status: domain.StatusCompleted}))

	// 13 of 25 are completed; the filter resets to page 1.
	view := ctrl.Snapshot()
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, 13, view.Filter.Matched)
	for _, record := range view.Records {
		assert.True(t, record.Completed)
	}

	require.Len(t, rec.ofType(EventQueryChanged), 1)
}

func TestController_SetQuery_Invalid(t *testing.T) {
	t.Parallel()

	eng := &mockEngine{
		fetchPageFn: func(ctx context.Context, page, pageSize int) PageResult {
			return PageResult{Records: makeRecords(5), Total: 5}
		},
	}
	ctrl, rec := newTestController(eng, 0)
	ctrl.Load(context.Background())

	from := time.Date(2026, time.August, 20, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)

	err := ctrl.SetQuery(domain.Query{From: &from, To: &to})
	require.ErrorIs(t, err, domain.ErrValidation)

	// Rejected queries change nothing.
	view := ctrl.Snapshot()
	assert.False(t, view.Filter.Active)
	assert.Len(t, view.Records, 5)
	assert.Empty(t, rec.ofType(EventQueryChanged))
}

func TestController_SetSearchText_Immediate(t *testing.T) {
	t.Parallel()

	eng := &mockEngine{
		fetchPageFn: func(ctx context.Context, page, pageSize int) PageResult {
			return PageResult{Records: makeRecords(25), Total: 25}
		},
	}
	ctrl, _ := newTestController(eng, 0)
	ctrl.Load(context.Background())

	ctrl.SetSearchText("task 25")

	view := ctrl.Snapshot()
	require.Len(t, view.Records, 1)
	assert.Equal(t, "task 25", view.Records[0].Text)
}

func TestController_SetSearchText_Debounced(t *testing.T) {
	t.Parallel()

	eng := &mockEngine{
		fetchPageFn: func(ctx context.Context, page, pageSize int) PageResult {
			return PageResult{Records: makeRecords(25), Total: 25}
		},
	}
	ctrl, rec := newTestController(eng, 30*time.Millisecond)
	ctrl.Load(context.Background())

	ctrl.SetSearchText("t")
	ctrl.SetSearchText("ta")
	ctrl.SetSearchText("task 25")

	// Nothing applies until the debounce window passes quietly.
	assert.False(t, ctrl.Snapshot().Filter.Active)

	assert.Eventually(t, func() bool {
		view := ctrl.Snapshot()
		return view.Filter.Active && view.Filter.Matched == 1
	}, time.Second, 5*time.Millisecond)

	// The intermediate keystrokes were coalesced into one filter run.
	assert.Len(t, rec.ofType(EventQueryChanged), 1)
	assert.Equal(t, "task 25", ctrl.Query().Search)
}

func TestController_SetQuery_CancelsPendingSearch(t *testing.T) {
	t.Parallel()

	eng := &mockEngine{
		fetchPageFn: func(ctx context.Context, page, pageSize int) PageResult {
			return PageResult{Records: makeRecords(10), Total: 10}
		},
	}
	ctrl, _ := newTestController(eng, 30*time.Millisecond)
	ctrl.Load(context.Background())

	ctrl.SetSearchText("task 1")
	require.NoError(t, ctrl.SetQuery(domain.Query{Status: domain.StatusActive}))

	time.Sleep(60 * time.Millisecond)

	// The replaced query stands; the stale keystroke never fires.
	assert.Equal(t, "", ctrl.Query().Search)
	assert.Equal(t, domain.StatusActive, ctrl.Query().Status)
}

func TestController_GoToPage(t *testing.T) {
	t.Parallel()

	eng := &mockEngine{
		fetchPageFn: func(ctx context.Context, page, pageSize int) PageResult {
			return PageResult{Records: makeRecords(25), Total: 25}
		},
	}
	ctrl, rec := newTestController(eng, 0)
	ctrl.Load(context.Background())
	rec.reset()

	require.True(t, ctrl.GoToPage(3))
	view := ctrl.Snapshot()
	assert.Equal(t, 3, view.Page)
	assert.Len(t, view.Records, 5)
	assert.Equal(t, int64(21), view.Records[0].ID)

	assert.False(t, ctrl.GoToPage(4))
	assert.False(t, ctrl.GoToPage(0))
	assert.Equal(t, 3, ctrl.Snapshot().Page)

	require.Len(t, rec.ofType(EventPageChanged), 1)
}

func TestController_Create(t *testing.T) {
	t.Parallel()

	eng := &mockEngine{
		fetchPageFn: func(ctx context.Context, page, pageSize int) PageResult {
			return PageResult{Records: makeRecords(5), Total: 5}
		},
		createFn: func(ctx context.Context, input CreateInput) (domain.Record, error) {
			return domain.Record{
				ID:     99,
				Text:   input.Text,
				Origin: domain.OriginRemote,
			}, nil
		},
	}
	ctrl, rec := newTestController(eng, 0)
	ctrl.Load(context.Background())

	record, err := ctrl.Create(context.Background(), CreateInput{Text: "new entry"})
	require.NoError(t, err)
	assert.Equal(t, int64(99), record.ID)

	view := ctrl.Snapshot()
	assert.Equal(t, 6, view.TotalItems)
	require.Len(t, view.Records, 6)
	assert.Equal(t, int64(99), view.Records[5].ID)

	created := rec.ofType(EventRecordCreated)
	require.Len(t, created, 1)
	require.NotNil(t, created[0].Record)
	assert.Equal(t, int64(99), created[0].Record.ID)
}

func TestController_Create_HiddenByActiveFilter(t *testing.T) {
	t.Parallel()

	eng := &mockEngine{
		fetchPageFn: func(ctx context.Context, page, pageSize int) PageResult {
			return PageResult{Records: makeRecords(5), Total: 5}
		},
		createFn: func(ctx context.Context, input CreateInput) (domain.Record, error) {
			return domain.Record{ID: 99, Text: input.Text}, nil
		},
	}
	ctrl, _ := newTestController(eng, 0)
	ctrl.Load(context.Background())
	require.NoError(t, ctrl.SetQuery(domain.Query{Search: "task"}))

	_, err := ctrl.Create(context.Background(), CreateInput{Text: "unrelated entry"})
	require.NoError(t, err)

	// The record exists but does not match the active query.
	view := ctrl.Snapshot()
	assert.Equal(t, 6, view.TotalItems)
	assert.Equal(t, 5, view.Filter.Matched)
	assert.Equal(t, 6, view.Filter.Total)
	assert.Len(t, view.Records, 5)
}

func TestController_Create_EngineError(t *testing.T) {
	t.Parallel()

	eng := &mockEngine{
		createFn: func(ctx context.Context, input CreateInput) (domain.Record, error) {
			return domain.Record{}, domain.ErrValidation
		},
	}
	ctrl, rec := newTestController(eng, 0)

	_, err := ctrl.Create(context.Background(), CreateInput{Text: "no"})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, rec.ofType(EventRecordCreated))
}

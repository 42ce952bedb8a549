package cache

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

type recordedEvent struct {
	category string
	event    string
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *fakeRecorder) RecordCacheEvent(_ context.Context, category, event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{category, event})
}

func (r *fakeRecorder) count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.event == event {
			n++
		}
	}
	return n
}

func newTestCache(t *testing.T) (*Cache, *MemoryBackend, *fakeClock, *fakeRecorder) {
	t.Helper()
	backend := NewMemoryBackend()
	clock := newFakeClock()
	rec := &fakeRecorder{}
	c := New(backend, Options{Now: clock.Now, Recorder: rec})
	return c, backend, clock, rec
}

func TestCache_RoundTripWithinTTL(t *testing.T) {
	ctx := context.Background()
	c, _, clock, rec := newTestCache(t)

	require.NoError(t, c.Set(ctx, CategoryTasks, "all", []byte(`{"tasks":[1,2]}`)))
	clock.Advance(2*time.Minute - time.Millisecond)

	got, ok := c.Get(ctx, CategoryTasks, "all", 0)
	require.True(t, ok)
	assert.JSONEq(t, `{"tasks":[1,2]}`, string(got))
	assert.Equal(t, 1, rec.count(EventHit))
}

func TestCache_ExpiresAtExactlyTTL(t *testing.T) {
	ctx := context.Background()
	c, backend, clock, rec := newTestCache(t)

	require.NoError(t, c.Set(ctx, CategoryTasks, "all", []byte(`[]`)))
	clock.Advance(2 * time.Minute)

	_, ok := c.Get(ctx, CategoryTasks, "all", 0)
	assert.False(t, ok, "entry aged exactly ttl must be absent")
	assert.Equal(t, 0, backend.Len(), "expired entry must be evicted on read")
	assert.Equal(t, 1, rec.count(EventExpired))
}

func TestCache_TTLOverride(t *testing.T) {
	ctx := context.Background()
	c, _, clock, _ := newTestCache(t)

	require.NoError(t, c.Set(ctx, CategoryWorkspaces, "all", []byte(`[]`)))
	clock.Advance(30 * time.Second)

	_, ok := c.Get(ctx, CategoryWorkspaces, "all", 10*time.Second)
	assert.False(t, ok)
}

func TestCache_DefaultTTLs(t *testing.T) {
	c := New(NewMemoryBackend(), Options{TTLs: map[Category]time.Duration{CategoryTasks: 30 * time.Second}})

	tests := []struct {
		category Category
		want     time.Duration
	}{
		{CategoryWorkspaces, 5 * time.Minute},
		{CategoryProjects, 5 * time.Minute},
		{CategoryTasks, 30 * time.Second},
		{CategoryTask, 5 * time.Minute},
		{CategoryTomorrowTasks, time.Hour},
		{CategoryNextWeekTasks, time.Hour},
		{Category("unknown"), time.Minute},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			assert.Equal(t, tt.want, c.TTL(tt.category))
		})
	}
}

func TestCache_MissOnAbsentKey(t *testing.T) {
	c, _, _, rec := newTestCache(t)

	_, ok := c.Get(context.Background(), CategoryTask, "tk_missing", 0)
	assert.False(t, ok)
	assert.Equal(t, 1, rec.count(EventMiss))
}

func TestCache_StoredFormat(t *testing.T) {
	ctx := context.Background()
	c, backend, clock, _ := newTestCache(t)

	require.NoError(t, c.Set(ctx, CategoryProjects, "ws_1", []byte(`[{"id":"p1"}]`)))

	raw, ok, err := backend.Get(ctx, "motion:projects:ws_1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"data":[{"id":"p1"}],"timestamp":`+strconv.FormatInt(clock.Now().UnixMilli(), 10)+`}`, string(raw))
}

func TestCache_RejectsInvalidPayload(t *testing.T) {
	c, _, _, _ := newTestCache(t)
	err := c.Set(context.Background(), CategoryTasks, "all", []byte("not json"))
	assert.Error(t, err)
}

func TestCache_UndecodableEntryIsDropped(t *testing.T) {
	ctx := context.Background()
	c, backend, _, _ := newTestCache(t)
	require.NoError(t, backend.Set(ctx, Key(CategoryTask, "tk_1"), []byte("garbage")))

	_, ok := c.Get(ctx, CategoryTask, "tk_1", 0)
	assert.False(t, ok)
	assert.Equal(t, 0, backend.Len())
}

func TestCache_Remove(t *testing.T) {
	ctx := context.Background()
	c, _, _, _ := newTestCache(t)
	require.NoError(t, c.Set(ctx, CategoryTask, "tk_1", []byte(`{}`)))
	require.NoError(t, c.Set(ctx, CategoryTask, "tk_2", []byte(`{}`)))

	require.NoError(t, c.Remove(ctx, CategoryTask, "tk_1"))

	_, ok := c.Get(ctx, CategoryTask, "tk_1", 0)
	assert.False(t, ok)
	_, ok = c.Get(ctx, CategoryTask, "tk_2", 0)
	assert.True(t, ok)
}

func TestCache_ClearCategoryLeavesOtherCategories(t *testing.T) {
	ctx := context.Background()
	c, _, _, _ := newTestCache(t)
	require.NoError(t, c.Set(ctx, CategoryTasks, "all", []byte(`[]`)))
	require.NoError(t, c.Set(ctx, CategoryTasks, "name=x", []byte(`[]`)))
	require.NoError(t, c.Set(ctx, CategoryTask, "tk_1", []byte(`{}`)))

	require.NoError(t, c.ClearCategory(ctx, CategoryTasks))

	_, ok := c.Get(ctx, CategoryTasks, "all", 0)
	assert.False(t, ok)
	_, ok = c.Get(ctx, CategoryTasks, "name=x", 0)
	assert.False(t, ok)
	_, ok = c.Get(ctx, CategoryTask, "tk_1", 0)
	assert.True(t, ok, "the task category shares a name prefix but must survive")
}

type noPrefixBackend struct {
	*MemoryBackend
}

func (noPrefixBackend) DeletePrefix(context.Context, string) error {
	return ErrPrefixUnsupported
}

func TestCache_ClearCategoryDegradesToClearAll(t *testing.T) {
	ctx := context.Background()
	backend := noPrefixBackend{NewMemoryBackend()}
	c := New(backend, Options{})
	require.NoError(t, c.Set(ctx, CategoryTasks, "all", []byte(`[]`)))
	require.NoError(t, c.Set(ctx, CategoryWorkspaces, "all", []byte(`[]`)))

	require.NoError(t, c.ClearCategory(ctx, CategoryTasks))

	assert.Equal(t, 0, backend.Len())
}

func TestCache_ClearAll(t *testing.T) {
	ctx := context.Background()
	c, backend, _, _ := newTestCache(t)
	require.NoError(t, c.Set(ctx, CategoryTasks, "all", []byte(`[]`)))
	require.NoError(t, c.Set(ctx, CategoryWorkspaces, "all", []byte(`[]`)))

	require.NoError(t, c.ClearAll(ctx))
	assert.Equal(t, 0, backend.Len())
}

type failingBackend struct {
	*MemoryBackend
}

func (failingBackend) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (failingBackend) Set(context.Context, string, []byte) error {
	return errors.New("connection refused")
}

func TestCache_BackendFailureIsAMiss(t *testing.T) {
	ctx := context.Background()
	c := New(failingBackend{NewMemoryBackend()}, Options{})

	_, ok := c.Get(ctx, CategoryTasks, "all", 0)
	assert.False(t, ok)
	assert.Error(t, c.Set(ctx, CategoryTasks, "all", []byte(`[]`)))
}

func TestGetSetJSON(t *testing.T) {
	type item struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	ctx := context.Background()
	c, _, _, _ := newTestCache(t)

	require.NoError(t, SetJSON(ctx, c, CategoryWorkspaces, "all", []item{{ID: "ws_1", Name: "Personal"}}))

	got, ok := GetJSON[[]item](ctx, c, CategoryWorkspaces, "all", 0)
	require.True(t, ok)
	assert.Equal(t, []item{{ID: "ws_1", Name: "Personal"}}, got)

	_, ok = GetJSON[[]item](ctx, nil, CategoryWorkspaces, "all", 0)
	assert.False(t, ok)
}

func TestGetJSON_TypeMismatchEvicts(t *testing.T) {
	ctx := context.Background()
	c, backend, _, _ := newTestCache(t)
	require.NoError(t, c.Set(ctx, CategoryTask, "tk_1", []byte(`"a string"`)))

	_, ok := GetJSON[map[string]int](ctx, c, CategoryTask, "tk_1", 0)
	assert.False(t, ok)
	assert.Equal(t, 0, backend.Len())
}

func TestCache_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c, _, _, _ := newTestCache(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := strconv.Itoa(i % 4)
			_ = c.Set(ctx, CategoryTasks, key, []byte(`[]`))
			c.Get(ctx, CategoryTasks, key, 0)
			if i%5 == 0 {
				_ = c.ClearCategory(ctx, CategoryTasks)
			}
		}(i)
	}
	wg.Wait()
}

package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/motionmcp/internal/motion"
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("NEXTWEEK")
	require.NoError(t, err)
	assert.Equal(t, NextWeek, p)

	_, err = ParsePeriod("yesterday")
	assert.Error(t, err)
}

func TestRangeFor(t *testing.T) {
	// Wednesday 2024-12-25, 10:00 local.
	now := time.Date(2024, 12, 25, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		period Period
		start  string
		end    string
	}{
		{Today, "2024-12-25", "2024-12-25"},
		{Tomorrow, "2024-12-26", "2024-12-26"},
		{ThisWeek, "2024-12-23", "2024-12-29"},
		{NextWeek, "2024-12-30", "2025-01-05"},
		{ThisMonth, "2024-12-01", "2024-12-31"},
		{NextMonth, "2025-01-01", "2025-01-31"},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			r, err := RangeFor(tt.period, now)
			require.NoError(t, err)
			assert.Equal(t, tt.start, r.Start.String())
			assert.Equal(t, tt.end, r.End.String())
		})
	}

	_, err := RangeFor(Period("fortnight"), now)
	assert.Error(t, err)
}

func TestRangeFor_WeekBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		now   time.Time
		start string
	}{
		{"monday", time.Date(2024, 12, 23, 0, 0, 0, 0, time.UTC), "2024-12-23"},
		{"sunday belongs to the week before", time.Date(2024, 12, 29, 23, 0, 0, 0, time.UTC), "2024-12-23"},
		{"across a year", time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC), "2024-12-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := RangeFor(ThisWeek, tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.start, r.Start.String())
			assert.Equal(t, r.Start.AddDays(6), r.End)
		})
	}
}

func TestRangeFor_LeapFebruary(t *testing.T) {
	r, err := RangeFor(NextMonth, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01..2024-02-29", r.String())
}

func TestRangeFor_UsesNowLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// 2024-12-25 20:00 UTC is already the 26th in Tokyo.
	now := time.Date(2024, 12, 25, 20, 0, 0, 0, time.UTC).In(tokyo)

	r, err := RangeFor(Today, now)
	require.NoError(t, err)
	assert.Equal(t, "2024-12-26", r.Start.String())
}

func TestRange_ContainsAndKey(t *testing.T) {
	r := Range{Start: mustDate(t, "2024-12-30"), End: mustDate(t, "2025-01-05")}

	assert.True(t, r.Contains(mustDate(t, "2024-12-30")))
	assert.True(t, r.Contains(mustDate(t, "2025-01-05")))
	assert.True(t, r.Contains(mustDate(t, "2025-01-01")))
	assert.False(t, r.Contains(mustDate(t, "2024-12-29")))
	assert.False(t, r.Contains(mustDate(t, "2025-01-06")))
	assert.Equal(t, "2024-12-30_2025-01-05", r.Key())
}

func TestMatchesRange(t *testing.T) {
	r := Range{Start: mustDate(t, "2024-12-23"), End: mustDate(t, "2024-12-29")}

	tests := []struct {
		name string
		task motion.Task
		want bool
	}{
		{
			name: "chunk inside range",
			task: motion.Task{Chunks: []motion.Chunk{
				{ScheduledStart: "2024-12-10T09:00:00Z"},
				{ScheduledStart: "2024-12-24T09:00:00Z"},
			}},
			want: true,
		},
		{
			name: "chunk outside range wins over due date inside",
			task: motion.Task{
				Chunks:  []motion.Chunk{{ScheduledStart: "2025-01-10T09:00:00Z"}},
				DueDate: "2024-12-25T23:59:00Z",
			},
			want: false,
		},
		{
			name: "chunk outside range wins over scheduled start inside",
			task: motion.Task{
				Chunks:         []motion.Chunk{{ScheduledStart: "2024-12-01T09:00:00Z"}},
				ScheduledStart: "2024-12-24T09:00:00Z",
			},
			want: false,
		},
		{
			name: "chunks without start never match",
			task: motion.Task{
				Chunks:  []motion.Chunk{{ID: "ch_1"}},
				DueDate: "2024-12-25",
			},
			want: false,
		},
		{
			name: "scheduled start inside",
			task: motion.Task{ScheduledStart: "2024-12-29T18:00:00Z"},
			want: true,
		},
		{
			name: "scheduled start outside wins over due date inside",
			task: motion.Task{ScheduledStart: "2024-12-30T08:00:00Z", DueDate: "2024-12-25"},
			want: false,
		},
		{
			name: "due date fallback",
			task: motion.Task{DueDate: "2024-12-23T00:00:00.000Z"},
			want: true,
		},
		{
			name: "due date outside",
			task: motion.Task{DueDate: "2024-12-30"},
			want: false,
		},
		{
			name: "nothing to go by",
			task: motion.Task{ID: "tk_1"},
			want: false,
		},
		{
			name: "malformed timestamp",
			task: motion.Task{ScheduledStart: "soon"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesRange(tt.task, r, time.UTC))
		})
	}
}

func TestMatchesRange_ConvertsTimestampsToLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	r := Range{Start: mustDate(t, "2024-12-26"), End: mustDate(t, "2024-12-26")}

	// 20:00 UTC on the 25th is the 26th in Tokyo.
	task := motion.Task{ScheduledStart: "2024-12-25T20:00:00Z"}
	assert.True(t, MatchesRange(task, r, tokyo))
	assert.False(t, MatchesRange(task, r, time.UTC))

	// Due dates are read literally, whatever the location.
	due := motion.Task{DueDate: "2024-12-25T20:00:00Z"}
	assert.False(t, MatchesRange(due, r, tokyo))
}

func TestFilter_PreservesOrder(t *testing.T) {
	r := Range{Start: mustDate(t, "2024-12-25"), End: mustDate(t, "2024-12-25")}
	tasks := []motion.Task{
		{ID: "c", DueDate: "2024-12-25"},
		{ID: "x", DueDate: "2024-12-26"},
		{ID: "a", ScheduledStart: "2024-12-25T08:00:00Z"},
		{ID: "b", Chunks: []motion.Chunk{{ScheduledStart: "2024-12-25T12:00:00Z"}}},
	}

	got := Filter(tasks, r, time.UTC)
	ids := make([]string, 0, len(got))
	for _, task := range got {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)

	empty := Filter(nil, r, time.UTC)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestDate(t *testing.T) {
	d := mustDate(t, "2024-02-28")
	assert.Equal(t, "2024-02-29", d.AddDays(1).String())
	assert.Equal(t, "2024-03-01", d.AddDays(2).String())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.AddDays(1).After(d))
	assert.False(t, d.IsZero())
	assert.True(t, Date{}.IsZero())

	_, err := ParseDate("2024-13-01")
	assert.Error(t, err)
	_, err = ParseDate("12/25/2024")
	assert.Error(t, err)
}

package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoll_EndTime(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	end, ok := Poll{StartTime: start, DurationHours: 3}.EndTime()
	require.True(t, ok)
	assert.Equal(t, start.Add(3*time.Hour), end)

	_, ok = Poll{DurationHours: 3}.EndTime()
	assert.False(t, ok)

	_, ok = Poll{StartTime: start}.EndTime()
	assert.False(t, ok)
}

func TestPoll_Status_Boundaries(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p := Poll{StartTime: start, DurationHours: 1}
	end := start.Add(time.Hour)

	tests := []struct {
		name string
		now  time.Time
		want PollStatus
	}{
		{name: "before start", now: start.Add(-time.Second), want: PollStatusUpcoming},
		{name: "at start", now: start, want: PollStatusActive},
		{name: "midway", now: start.Add(30 * time.Minute), want: PollStatusActive},
		{name: "at end", now: end, want: PollStatusActive},
		{name: "one second after end", now: end.Add(time.Second), want: PollStatusEnded},
		{name: "one nanosecond after end", now: end.Add(time.Nanosecond), want: PollStatusEnded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Status(tt.now))
		})
	}
}

func TestPoll_Status_ExactlyOne(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p := Poll{StartTime: start, DurationHours: 2}

	for offset := -3 * time.Hour; offset <= 3*time.Hour; offset += 15 * time.Minute {
		now := start.Add(offset)
		active, ended := p.IsActive(now), p.HasEnded(now)
		assert.False(t, active && ended, "offset %s", offset)

		switch p.Status(now) {
		case PollStatusActive:
			assert.True(t, active)
		case PollStatusEnded:
			assert.True(t, ended)
		case PollStatusUpcoming:
			assert.False(t, active || ended)
		default:
			t.Fatalf("unexpected status at offset %s", offset)
		}
	}
}

func TestPoll_WithoutSchedule_NeverActive(t *testing.T) {
	now := time.Now()
	p := Poll{Title: "draft"}

	assert.False(t, p.IsActive(now))
	assert.False(t, p.HasEnded(now))
	assert.Equal(t, PollStatusUpcoming, p.Status(now))
}

func TestIdentity_Can(t *testing.T) {
	admin := Identity{UserID: 1, Role: RoleAdmin}
	voter := Identity{UserID: 2, Role: RoleVoter}
	nobody := Identity{UserID: 3}

	assert.True(t, admin.Can(CapManagePolls))
	assert.True(t, admin.Can(CapViewLiveResults))
	assert.False(t, admin.Can(CapVote))

	assert.True(t, voter.Can(CapVote))
	assert.False(t, voter.Can(CapViewLiveResults))
	assert.False(t, voter.Can(CapManagePolls))

	assert.False(t, nobody.Can(CapVote))
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("admin")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, r)

	_, ok = ParseRole("superuser")
	assert.False(t, ok)
}

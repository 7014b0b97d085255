package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBooking_EndTime(t *testing.T) {
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	b := &Booking{StartTime: start, DurationMin: 60}

	assert.Equal(t, start.Add(time.Hour), b.EndTime())
}

func TestBooking_CanCancel(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		start  time.Time
		status BookingStatus
		want   bool
	}{
		{
			name:   "well before cutoff",
			start:  now.Add(5 * time.Hour),
			status: BookingConfirmed,
			want:   true,
		},
		{
			name:   "one minute past cutoff",
			start:  now.Add(2*time.Hour + time.Minute),
			status: BookingPending,
			want:   true,
		},
		{
			name:   "one minute inside cutoff",
			start:  now.Add(2*time.Hour - time.Minute),
			status: BookingPending,
			want:   false,
		},
		{
			name:   "exactly at cutoff",
			start:  now.Add(2 * time.Hour),
			status: BookingConfirmed,
			want:   false,
		},
		{
			name:   "already completed",
			start:  now.Add(5 * time.Hour),
			status: BookingCompleted,
			want:   false,
		},
		{
			name:   "already cancelled",
			start:  now.Add(5 * time.Hour),
			status: BookingCancelled,
			want:   false,
		},
		{
			name:   "no-show is still cancellable",
			start:  now.Add(5 * time.Hour),
			status: BookingNoShow,
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Booking{StartTime: tt.start, Status: tt.status}
			assert.Equal(t, tt.want, b.CanCancel(now))
		})
	}
}

func TestBookingStatus_Occupying(t *testing.T) {
	occupying := []BookingStatus{BookingPending, BookingConfirmed, BookingInProgress}
	for _, s := range occupying {
		assert.True(t, s.Occupying(), "status %s should occupy the slot", s)
	}

	free := []BookingStatus{BookingCompleted, BookingCancelled, BookingNoShow}
	for _, s := range free {
		assert.False(t, s.Occupying(), "status %s should not occupy the slot", s)
	}
}

func TestBooking_CanTransition(t *testing.T) {
	tests := []struct {
		name   string
		from   BookingStatus
		to     BookingStatus
		want   bool
	}{
		{"pending to confirmed", BookingPending, BookingConfirmed, true},
		{"confirmed to in-progress", BookingConfirmed, BookingInProgress, true},
		{"in-progress to completed", BookingInProgress, BookingCompleted, true},
		{"pending straight to completed", BookingPending, BookingCompleted, true},
		{"confirmed back to pending", BookingConfirmed, BookingPending, false},
		{"completed back to in-progress", BookingCompleted, BookingInProgress, false},
		{"pending to cancelled", BookingPending, BookingCancelled, true},
		{"in-progress to no-show", BookingInProgress, BookingNoShow, true},
		{"cancelled to confirmed", BookingCancelled, BookingConfirmed, false},
		{"no-show to completed", BookingNoShow, BookingCompleted, false},
		{"self transition", BookingPending, BookingPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Booking{Status: tt.from}
			assert.Equal(t, tt.want, b.CanTransition(tt.to))
		})
	}
}

package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// BotState is the process-wide lifecycle, driven only by the orchestrator
// and the time-limit governor.
type BotState string

const (
	BotIdle          BotState = "IDLE"
	BotRunning       BotState = "RUNNING"
	BotHaltRequested BotState = "HALT_REQUESTED"
	BotStopped       BotState = "STOPPED"
)

type PolicyKind string

const (
	PolicyNone        PolicyKind = "none"
	PolicyDuration    PolicyKind = "duration"
	PolicyDeadline    PolicyKind = "deadline"
	PolicyDailyWindow PolicyKind = "daily_window"
)

// TimeOfDay is a wall-clock time within a day, minute resolution.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) Minutes() int { return t.Hour*60 + t.Minute }

func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute) }

// ParseTimeOfDay parses "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return TimeOfDay{}, fmt.Errorf("time of day %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return TimeOfDay{}, fmt.Errorf("time of day %q: bad hour", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day %q: bad minute", s)
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

// TimeLimitPolicy is a tagged variant over the three limit modes. Immutable
// once applied to the governor; replacing it requires an explicit re-apply.
type TimeLimitPolicy struct {
	Kind PolicyKind

	// Kind == PolicyDuration
	Duration time.Duration

	// Kind == PolicyDeadline
	Deadline time.Time

	// Kind == PolicyDailyWindow. Start > End spans midnight.
	WindowStart TimeOfDay
	WindowEnd   TimeOfDay
}

func (p TimeLimitPolicy) Validate() error {
	switch p.Kind {
	case PolicyNone:
		return nil
	case PolicyDuration:
		if p.Duration <= 0 {
			return fmt.Errorf("duration policy: duration must be positive, got %s", p.Duration)
		}
	case PolicyDeadline:
		if p.Deadline.IsZero() {
			return fmt.Errorf("deadline policy: deadline not set")
		}
	case PolicyDailyWindow:
		if p.WindowStart == p.WindowEnd {
			return fmt.Errorf("daily window policy: start equals end (%s)", p.WindowStart)
		}
	default:
		return fmt.Errorf("unknown time limit policy %q", p.Kind)
	}
	return nil
}

// InWindow reports whether t's time of day falls inside the daily window,
// start inclusive, end exclusive. A window with start > end wraps midnight.
func (p TimeLimitPolicy) InWindow(t time.Time) bool {
	cur := t.Hour()*60 + t.Minute()
	start := p.WindowStart.Minutes()
	end := p.WindowEnd.Minutes()
	if start <= end {
		return cur >= start && cur < end
	}
	return cur >= start || cur < end
}

package entity

import "time"

const (
	SessionPomodoro   = "pomodoro"
	SessionDeepWork   = "deep_work"
	SessionShortBreak = "short_break"
	SessionLongBreak  = "long_break"
	SessionCustom     = "custom"
)

// FocusSession is open while EndTime is nil.
type FocusSession struct {
	ID                 string
	UserID             string
	StartTime          time.Time
	EndTime            *time.Time
	DurationMinutes    int
	SessionType        string
	ProductivityRating *int
	Notes              *string
	CreatedAt          time.Time
	UpdatedAt          *time.Time
}

func (s *FocusSession) Ended() bool { return s.EndTime != nil }

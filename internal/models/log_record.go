package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// ErrInvalidInterval is returned for inverted or malformed date ranges.
var ErrInvalidInterval = errors.New("invalid date interval")

// Outcome is the cosmetic success flag of a login attempt.
type Outcome string

const (
	Success Outcome = "Y"
	Failure Outcome = "N"
)

func ParseOutcome(s string) (Outcome, error) {
	switch Outcome(s) {
	case Success, Failure:
		return Outcome(s), nil
	}
	return "", fmt.Errorf("invalid outcome %q", s)
}

// DateInterval is an inclusive range of calendar dates.
type DateInterval struct {
	Start time.Time
	End   time.Time
}

// NewDateInterval drops the time-of-day of both ends.
func NewDateInterval(start, end time.Time) (DateInterval, error) {
	iv := DateInterval{Start: truncateDay(start), End: truncateDay(end)}
	if iv.Start.After(iv.End) {
		return DateInterval{}, fmt.Errorf("%w: start %s is after end %s", ErrInvalidInterval,
			iv.Start.Format(DateLayout), iv.End.Format(DateLayout))
	}
	return iv, nil
}

// ParseDateInterval expects exactly two YYYY-MM-DD dates.
func ParseDateInterval(dates []string) (DateInterval, error) {
	if len(dates) != 2 {
		return DateInterval{}, fmt.Errorf("%w: expected 2 dates, got %d", ErrInvalidInterval, len(dates))
	}
	start, err := time.Parse(DateLayout, strings.TrimSpace(dates[0]))
	if err != nil {
		return DateInterval{}, fmt.Errorf("%w: start date: %v", ErrInvalidInterval, err)
	}
	end, err := time.Parse(DateLayout, strings.TrimSpace(dates[1]))
	if err != nil {
		return DateInterval{}, fmt.Errorf("%w: end date: %v", ErrInvalidInterval, err)
	}
	return NewDateInterval(start, end)
}

func (iv DateInterval) String() string {
	return iv.Start.Format(DateLayout) + ".." + iv.End.Format(DateLayout)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// LogRecord is one generated login attempt.
type LogRecord struct {
	LogID      int
	Username   string
	Timestamp  time.Time
	Successful Outcome
}

// logRecordJSON mirrors the CSV columns.
type logRecordJSON struct {
	LogID      int     `json:"log_id"`
	Username   string  `json:"username"`
	Timestamp  string  `json:"timestamp"`
	Successful Outcome `json:"successful"`
}

func (r LogRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(logRecordJSON{
		LogID:      r.LogID,
		Username:   r.Username,
		Timestamp:  r.FormattedTimestamp(),
		Successful: r.Successful,
	})
}

func (r *LogRecord) UnmarshalJSON(data []byte) error {
	var raw logRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ts, err := time.Parse(TimestampLayout, raw.Timestamp)
	if err != nil {
		return err
	}
	outcome, err := ParseOutcome(string(raw.Successful))
	if err != nil {
		return err
	}
	*r = LogRecord{LogID: raw.LogID, Username: raw.Username, Timestamp: ts, Successful: outcome}
	return nil
}

// FormattedTimestamp renders Timestamp at second resolution.
func (r LogRecord) FormattedTimestamp() string {
	return r.Timestamp.Format(TimestampLayout)
}

// LogTable is ordered by ascending LogID.
type LogTable []LogRecord

// GenerationRequest carries pre-validated shell input into the generator.
type GenerationRequest struct {
	Usernames   []string
	Interval    DateInterval
	Quantity    int
	SuccessBias float64
}

package generator

import (
	"time"

	"github.com/xHacka/login-log-generator/internal/models"
)

// Source is the random stream the generator draws from. *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// Sampler draws uniformly random instants inside a date interval.
// It is not safe for concurrent use unless its Source is.
type Sampler struct {
	src Source
}

func NewSampler(src Source) *Sampler {
	return &Sampler{src: src}
}

// Sample returns an instant in [start 00:00:00, end+1day 00:00:00),
// truncated to the second. A single-day interval spans that whole day.
func (s *Sampler) Sample(iv models.DateInterval) (time.Time, error) {
	iv, err := models.NewDateInterval(iv.Start, iv.End)
	if err != nil {
		return time.Time{}, err
	}
	// whole seconds: a time.Duration saturates past ~292 years
	start := iv.Start.Unix()
	window := iv.End.AddDate(0, 0, 1).Unix() - start

	offset := int64(s.src.Float64() * float64(window))
	if offset >= window {
		offset = window - 1
	}
	return time.Unix(start+offset, 0).UTC(), nil
}

// SampleDates parses a raw two-element date range and samples it.
func (s *Sampler) SampleDates(dates []string) (time.Time, error) {
	iv, err := models.ParseDateInterval(dates)
	if err != nil {
		return time.Time{}, err
	}
	return s.Sample(iv)
}

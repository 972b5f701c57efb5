package generator

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/xHacka/login-log-generator/internal/models"
)

const DefaultMaxQuantity = 500

// Generator builds tables of synthetic login attempts. It owns its random
// stream; a mutex serializes draws so one Generator can back many handlers.
type Generator struct {
	mu          sync.Mutex
	rnd         Source
	sampler     *Sampler
	maxQuantity int
}

// New returns a generator drawing from rnd. A nil rnd is replaced by a
// time-seeded PCG stream. maxQuantity <= 0 means DefaultMaxQuantity.
func New(maxQuantity int, rnd Source) *Generator {
	if rnd == nil {
		rnd = NewRand(0)
	}
	g := &Generator{rnd: rnd, sampler: NewSampler(rnd)}
	g.SetMaxQuantity(maxQuantity)
	return g
}

// NewRand returns a PCG-backed stream. seed 0 uses the current time.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func (g *Generator) SetMaxQuantity(n int) {
	if n <= 0 {
		n = DefaultMaxQuantity
	}
	g.mu.Lock()
	g.maxQuantity = n
	g.mu.Unlock()
}

func (g *Generator) MaxQuantity() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.maxQuantity
}

// Validate runs the checks Generate performs, in the same order, without
// drawing anything: usernames, quantity, bias, then the interval.
func (g *Generator) Validate(req models.GenerationRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, _, err := g.validate(req)
	return err
}

func (g *Generator) validate(req models.GenerationRequest) ([]string, models.DateInterval, error) {
	usernames := NormalizeList(req.Usernames)
	if len(usernames) == 0 {
		return nil, models.DateInterval{}, ErrEmptyUsernameList
	}
	if req.Quantity < 1 {
		return nil, models.DateInterval{}, fmt.Errorf("%w: %d is not a positive record count", ErrInvalidQuantity, req.Quantity)
	}
	if req.Quantity > g.maxQuantity {
		return nil, models.DateInterval{}, fmt.Errorf("%w: %d exceeds the maximum of %d", ErrInvalidQuantity, req.Quantity, g.maxQuantity)
	}
	// also rejects NaN
	if !(req.SuccessBias >= 0 && req.SuccessBias <= 1) {
		return nil, models.DateInterval{}, fmt.Errorf("%w: got %v", ErrInvalidBias, req.SuccessBias)
	}
	iv, err := models.NewDateInterval(req.Interval.Start, req.Interval.End)
	if err != nil {
		return nil, models.DateInterval{}, err
	}
	return usernames, iv, nil
}

// Generate validates req and returns exactly req.Quantity records with
// log ids 1..Quantity in generation order. No partial table is returned.
func (g *Generator) Generate(req models.GenerationRequest) (models.LogTable, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	usernames, iv, err := g.validate(req)
	if err != nil {
		return nil, err
	}

	table := make(models.LogTable, req.Quantity)
	for i := range table {
		username := usernames[g.rnd.IntN(len(usernames))]
		ts, err := g.sampler.Sample(iv)
		if err != nil {
			return nil, err
		}
		outcome := models.Failure
		if g.rnd.Float64() < req.SuccessBias {
			outcome = models.Success
		}
		table[i] = models.LogRecord{
			LogID:      i + 1,
			Username:   username,
			Timestamp:  ts,
			Successful: outcome,
		}
	}
	return table, nil
}

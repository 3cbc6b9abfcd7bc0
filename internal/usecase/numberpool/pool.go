package numberpool

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

type Options struct {
	Mode         domain.NumberingMode
	TotalNumbers int
	// SpaceSize is ignored in sequential mode, where it equals TotalNumbers.
	SpaceSize    int
	PrizeCount   int
	PrizeNumbers []int64
}

// Pool draws ticket numbers. It is safe for concurrent use.
type Pool struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func New(src rand.Source) *Pool {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>7|1)
	}
	return &Pool{rnd: rand.New(src)}
}

// Generate returns totalNumbers distinct values drawn uniformly from
// [0, numberSpaceSize), all available, with prizeCount of them flagged.
func (p *Pool) Generate(totalNumbers, numberSpaceSize, prizeCount int) ([]*domain.NumberRecord, error) {
	return p.GenerateWith(Options{
		Mode:         domain.NumberingRandom,
		TotalNumbers: totalNumbers,
		SpaceSize:    numberSpaceSize,
		PrizeCount:   prizeCount,
	})
}

func (p *Pool) GenerateWith(opts Options) ([]*domain.NumberRecord, error) {
	if opts.TotalNumbers < 1 {
		return nil, fmt.Errorf("%w: total numbers must be at least 1", domain.ErrInvalidInput)
	}
	if opts.PrizeCount < 0 {
		return nil, fmt.Errorf("%w: negative prize count", domain.ErrInvalidInput)
	}

	var values []int64
	switch opts.Mode {
	case domain.NumberingSequential:
		values = make([]int64, opts.TotalNumbers)
		for i := range values {
			values[i] = int64(i + 1)
		}
	case domain.NumberingRandom, "":
		if opts.TotalNumbers > opts.SpaceSize {
			return nil, fmt.Errorf("%w: %d numbers requested from a space of %d",
				domain.ErrCapacityExceeded, opts.TotalNumbers, opts.SpaceSize)
		}
		values = p.sample(opts.TotalNumbers, opts.SpaceSize)
	default:
		return nil, fmt.Errorf("%w: unknown numbering mode %q", domain.ErrInvalidInput, opts.Mode)
	}

	prizes, err := p.prizes(values, opts)
	if err != nil {
		return nil, err
	}

	records := make([]*domain.NumberRecord, len(values))
	for i, v := range values {
		_, prize := prizes[v]
		records[i] = &domain.NumberRecord{
			Value:  v,
			Status: domain.NumberAvailable,
			Prize:  prize,
		}
	}
	return records, nil
}

// sample is plain rejection sampling: draw, skip values already taken.
func (p *Pool) sample(total, space int) []int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	used := make(map[int64]struct{}, total)
	values := make([]int64, 0, total)
	for len(values) < total {
		candidate := p.rnd.Int64N(int64(space))
		if _, dup := used[candidate]; dup {
			continue
		}
		used[candidate] = struct{}{}
		values = append(values, candidate)
	}
	slices.Sort(values)
	return values
}

func (p *Pool) prizes(values []int64, opts Options) (map[int64]struct{}, error) {
	out := make(map[int64]struct{})
	if len(opts.PrizeNumbers) > 0 {
		for _, v := range opts.PrizeNumbers {
			if _, found := slices.BinarySearch(values, v); !found {
				return nil, fmt.Errorf("%w: prize number %d is not in the pool", domain.ErrInvalidInput, v)
			}
			out[v] = struct{}{}
		}
		return out, nil
	}
	if opts.PrizeCount > len(values) {
		return nil, fmt.Errorf("%w: %d prizes for %d numbers", domain.ErrCapacityExceeded, opts.PrizeCount, len(values))
	}
	for _, v := range p.Pick(values, opts.PrizeCount) {
		out[v] = struct{}{}
	}
	return out, nil
}

// Pick draws n values from candidates without replacement. The input is not
// modified; n is clamped to len(candidates).
func (p *Pool) Pick(candidates []int64, n int) []int64 {
	if n > len(candidates) {
		n = len(candidates)
	}
	if n <= 0 {
		return nil
	}
	pool := slices.Clone(candidates)

	p.mu.Lock()
	for i := 0; i < n; i++ {
		j := i + p.rnd.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	p.mu.Unlock()

	picked := pool[:n]
	slices.Sort(picked)
	return picked
}

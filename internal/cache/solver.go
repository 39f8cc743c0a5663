// Package cache memoizes change computations. The solver is pure, so a
// request with the same register, amount and debug flag always has the
// same result; entries are cloned on the way in and out.
package cache

import (
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"svw.info/changemaker/internal/domain"
	"svw.info/changemaker/internal/ports"
)

type Solver struct {
	next    ports.Solver
	results *lru.Cache[string, *domain.Result]
}

var _ ports.Solver = (*Solver)(nil)

// NewSolver wraps next with an LRU of the given size. A size of zero or less
// disables caching and returns next unchanged.
func NewSolver(next ports.Solver, size int) (ports.Solver, error) {
	if size <= 0 {
		return next, nil
	}
	c, err := lru.New[string, *domain.Result](size)
	if err != nil {
		return nil, err
	}
	return &Solver{next: next, results: c}, nil
}

func (s *Solver) Solve(req domain.ChangeRequest) (*domain.Result, ports.Stats) {
	key := requestKey(req)
	if res, ok := s.results.Get(key); ok {
		return res.Clone(), ports.Stats{Cached: true}
	}
	res, st := s.next.Solve(req)
	s.results.Add(key, res.Clone())
	return res, st
}

// Len reports the number of cached results.
func (s *Solver) Len() int { return s.results.Len() }

func requestKey(req domain.ChangeRequest) string {
	var b strings.Builder
	b.Grow(16 + len(req.Register)*8)
	b.WriteString(strconv.Itoa(req.Amount))
	if req.Debug {
		b.WriteString("|d")
	}
	for _, c := range req.Register {
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(c.Denom))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(c.Count))
	}
	return b.String()
}

package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jask/trackmysleep/internal/database/repository"
)

// memStore is an in-memory NightStore and QualityStore. It records whether
// two calls ever overlapped.
type memStore struct {
	mu      sync.Mutex
	nights  []repository.Night
	nextID  int64
	delay   time.Duration
	failAll error

	inFlight   atomic.Int32
	overlapped atomic.Bool
}

func (s *memStore) enter() func() {
	if s.inFlight.Add(1) > 1 {
		s.overlapped.Store(true)
	}
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return func() { s.inFlight.Add(-1) }
}

func (s *memStore) Tonight(ctx context.Context) (*repository.Night, error) {
	defer s.enter()()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.nights) == 0 {
		return nil, nil
	}
	latest := s.nights[0]
	for _, n := range s.nights {
		if n.ID > latest.ID {
			latest = n
		}
	}
	return &latest, nil
}

func (s *memStore) All(ctx context.Context) ([]repository.Night, error) {
	defer s.enter()()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return nil, s.failAll
	}
	out := append([]repository.Night(nil), s.nights...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *memStore) Insert(ctx context.Context, n *repository.Night) error {
	defer s.enter()()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	n.ID = s.nextID
	s.nights = append(s.nights, *n)
	return nil
}

func (s *memStore) Update(ctx context.Context, n repository.Night) error {
	defer s.enter()()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.nights {
		if s.nights[i].ID == n.ID {
			s.nights[i] = n
			return nil
		}
	}
	return errors.New("update: no such night")
}

func (s *memStore) Clear(ctx context.Context) error {
	defer s.enter()()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nights = nil
	return nil
}

func (s *memStore) Get(ctx context.Context, id int64) (*repository.Night, error) {
	defer s.enter()()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.nights {
		if n.ID == id {
			c := n
			return &c, nil
		}
	}
	return nil, nil
}

// stepClock returns a clock that advances by step on every call.
func stepClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	cur := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := cur
		cur = cur.Add(step)
		return now
	}
}

// Package memory provides the in-process record store backing each ledger:
// an owner-indexed, identifier-indexed map with monotonic identifier
// assignment and a single mutex serializing every call, so each operation
// runs to completion atomically with respect to all others.
package memory

import (
	"sync"
	"time"

	"github.com/remitwise-ledger/internal/domain/shared"
)

// Options wires the record-type specifics the generic store needs: how to
// read a record's owner, how to copy it so callers never share mutable
// state with the store, how to stamp an assigned identifier, and which
// typed error to surface for unknown identifiers.
type Options[R comparable] struct {
	OwnerOf  func(R) shared.Principal
	Clone    func(R) R
	SetID    func(R, int64)
	NotFound func(id int64) error
}

type Store[R comparable] struct {
	mu        sync.Mutex
	records   map[int64]R
	order     []int64 // insertion order among currently-present records
	nextID    int64
	retention time.Duration
	deadline  time.Time
	opts      Options[R]
}

// NewStore creates an empty store for one ledger instance. Identifiers
// start at 1 and are never reused, even after deletion. Every mutating call
// refreshes the retention deadline by the given window; a zero window
// disables retention tracking.
func NewStore[R comparable](retention time.Duration, opts Options[R]) *Store[R] {
	return &Store[R]{
		records:   make(map[int64]R),
		retention: retention,
		opts:      opts,
	}
}

// Create assigns the next identifier, persists a copy of the record and
// returns the identifier.
func (s *Store[R]) Create(record R) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(record)
}

// Get returns a copy of the record, or the store's typed not-found error.
func (s *Store[R]) Get(id int64) (R, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		var zero R
		return zero, s.opts.NotFound(id)
	}
	return s.opts.Clone(record), nil
}

// Update applies mutate to a copy of the record and persists the copy only
// when mutate succeeds, keeping failed calls free of partial writes.
func (s *Store[R]) Update(id int64, mutate func(R) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return s.opts.NotFound(id)
	}

	draft := s.opts.Clone(record)
	if err := mutate(draft); err != nil {
		return err
	}

	s.records[id] = draft
	s.touch()
	return nil
}

// Delete removes the record unconditionally if present. The identifier is
// not returned to the counter.
func (s *Store[R]) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return s.opts.NotFound(id)
	}
	delete(s.records, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.touch()
	return nil
}

// ListByOwner returns copies of the owner's records in insertion order.
func (s *Store[R]) ListByOwner(owner shared.Principal) []R {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []R
	for _, id := range s.order {
		record, ok := s.records[id]
		if !ok {
			continue
		}
		if s.opts.OwnerOf(record) == owner {
			result = append(result, s.opts.Clone(record))
		}
	}
	return result
}

// List returns copies of all records in insertion order, across owners.
func (s *Store[R]) List() []R {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]R, 0, len(s.order))
	for _, id := range s.order {
		if record, ok := s.records[id]; ok {
			result = append(result, s.opts.Clone(record))
		}
	}
	return result
}

// Len returns the number of currently-present records.
func (s *Store[R]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// UpdateAll is the batch counterpart of Update: it applies mutate to a
// copy of each identified record, in input order, and persists every copy
// only when all calls succeed, so one failing record leaves the store
// untouched. A mutate call may return a follow-on record (the zero value
// means none) to insert in the same step. It backs the settle-and-spawn
// step of the bill ledger, where revalidating the record, marking it
// terminal and inserting its successor must happen under one lock
// acquisition. Returns the inserts' assigned identifiers aligned with ids,
// zero where a call inserted nothing.
//
// A duplicate identifier in ids sees the staged state left by its earlier
// occurrence, not the stored one, so mutate fails the same way it would
// across two sequential calls.
func (s *Store[R]) UpdateAll(ids []int64, mutate func(R) (R, error)) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero R
	staged := make(map[int64]R, len(ids))
	spawns := make([]R, len(ids))
	for i, id := range ids {
		record, ok := staged[id]
		if !ok {
			if record, ok = s.records[id]; !ok {
				return nil, s.opts.NotFound(id)
			}
		}
		draft := s.opts.Clone(record)
		spawn, err := mutate(draft)
		if err != nil {
			return nil, err
		}
		staged[id] = draft
		spawns[i] = spawn
	}

	insertedIDs := make([]int64, len(ids))
	for _, id := range ids {
		s.records[id] = staged[id]
	}
	for i, spawn := range spawns {
		if spawn != zero {
			insertedIDs[i] = s.insert(spawn)
		}
	}
	s.touch()
	return insertedIDs, nil
}

// RetentionDeadline reports when the store's data would fall out of the
// retention window absent further writes. Purely advisory: nothing in the
// store expires data on its own.
func (s *Store[R]) RetentionDeadline() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deadline
}

// insert assumes the lock is held.
func (s *Store[R]) insert(record R) int64 {
	s.nextID++
	id := s.nextID
	stored := s.opts.Clone(record)
	s.opts.SetID(stored, id)
	s.opts.SetID(record, id)
	s.records[id] = stored
	s.order = append(s.order, id)
	s.touch()
	return id
}

// touch assumes the lock is held.
func (s *Store[R]) touch() {
	if s.retention > 0 {
		s.deadline = time.Now().Add(s.retention)
	}
}

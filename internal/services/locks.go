package services

import "sync"

// studentLocks serializes work per student. Entries are reference counted and
// dropped when the last holder releases, so the map tracks only active students.
type studentLocks struct {
	mu    sync.Mutex
	locks map[string]*studentLock
}

type studentLock struct {
	mu   sync.Mutex
	refs int
}

func newStudentLocks() *studentLocks {
	return &studentLocks{locks: make(map[string]*studentLock)}
}

// Lock blocks until studentID is free and returns the matching unlock func.
func (s *studentLocks) Lock(studentID string) func() {
	s.mu.Lock()
	l, ok := s.locks[studentID]
	if !ok {
		l = &studentLock{}
		s.locks[studentID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, studentID)
		}
		s.mu.Unlock()
	}
}

func (s *studentLocks) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}

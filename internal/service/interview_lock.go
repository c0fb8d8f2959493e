package service

import "sync"

// InterviewLocks serializes mutating operations per interview id. A message
// arriving while the AI round-trip for the same interview is in flight queues
// behind the lock; operations on different interviews proceed in parallel.
type InterviewLocks struct {
	locks sync.Map // interview id -> *sync.Mutex
}

func NewInterviewLocks() *InterviewLocks {
	return &InterviewLocks{}
}

// Lock acquires the mutex for the given interview id and returns the unlock
// function. Lock entries are kept for the process lifetime; interview ids are
// a bounded set per deployment.
func (l *InterviewLocks) Lock(interviewID uint) func() {
	v, _ := l.locks.LoadOrStore(interviewID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

package bot

import "sync"

// PageSize is the number of records shown on one listing page.
const PageSize = 5

type session struct {
	offset int
	step   Step
}

// SessionStore keeps the pagination offset and conversation step of every
// operator in memory. Nothing survives a restart.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]*session),
	}
}

// get must be called with mu held.
func (s *SessionStore) get(operatorID int64) *session {
	sess, ok := s.sessions[operatorID]
	if !ok {
		sess = &session{}
		s.sessions[operatorID] = sess
	}
	return sess
}

// Offset returns the current offset, 0 for an operator never seen before.
func (s *SessionStore) Offset(operatorID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[operatorID]; ok {
		return sess.offset
	}
	return 0
}

// Advance moves one page forward and returns the new offset.
func (s *SessionStore) Advance(operatorID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(operatorID)
	sess.offset += PageSize
	return sess.offset
}

// Retreat moves one page back, never below 0, and returns the new offset.
func (s *SessionStore) Retreat(operatorID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.get(operatorID)
	sess.offset = max(sess.offset-PageSize, 0)
	return sess.offset
}

func (s *SessionStore) Reset(operatorID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.get(operatorID).offset = 0
}

func (s *SessionStore) Step(operatorID int64) Step {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[operatorID]; ok {
		return sess.step
	}
	return StepIdle
}

func (s *SessionStore) SetStep(operatorID int64, step Step) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.get(operatorID).step = step
}

func (s *SessionStore) ClearStep(operatorID int64) {
	s.SetStep(operatorID, StepIdle)
}

// TakeStep returns the current step and resets it to idle in one go.
func (s *SessionStore) TakeStep(operatorID int64) Step {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[operatorID]
	if !ok {
		return StepIdle
	}
	step := sess.step
	sess.step = StepIdle
	return step
}

// PageNumber is the 1-based page shown to the operator for an offset.
func PageNumber(offset int) int {
	return offset/PageSize + 1
}

func HasNext(offset, total int) bool {
	return total > offset+PageSize
}

func HasPrev(offset int) bool {
	return offset >= PageSize
}

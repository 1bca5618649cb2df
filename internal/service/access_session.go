package service

import (
	"context"
	"sync"

	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/model"
)

// EntitlementChecker is the part of EntitlementService an AccessSession needs.
type EntitlementChecker interface {
	CheckEntitlement(ctx context.Context, studentID, courseID string) bool
}

// AccessSession tracks the entitlement state of one course view:
//
//	unknown -> checking -> entitled | not_entitled
//
// Every change of viewer or course starts a new check. Results of a check
// started for an earlier context are dropped.
type AccessSession struct {
	mu        sync.Mutex
	studentID string
	courseID  string
	gen       uint64
	state     model.AccessState
}

func NewAccessSession() *AccessSession {
	return &AccessSession{state: model.AccessUnknown}
}

// SetContext switches the session to a new (student, course) pair and returns
// the generation to pass to Resolve. An anonymous viewer is not entitled and
// needs no check.
func (s *AccessSession) SetContext(studentID, courseID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.studentID, s.courseID = studentID, courseID
	s.gen++
	if studentID == "" || courseID == "" {
		s.state = model.AccessNotEntitled
	} else {
		s.state = model.AccessChecking
	}
	return s.gen
}

// Resolve applies the result of the check started at gen. It reports false
// when the result is stale.
func (s *AccessSession) Resolve(gen uint64, entitled bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.state != model.AccessChecking {
		return false
	}
	if entitled {
		s.state = model.AccessEntitled
	} else {
		s.state = model.AccessNotEntitled
	}
	return true
}

// MarkPurchased moves the session to entitled after a successful purchase of
// the current course, without asking the store again. Any check still in
// flight is invalidated.
func (s *AccessSession) MarkPurchased(studentID, courseID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if studentID == "" || studentID != s.studentID || courseID != s.courseID {
		return false
	}
	s.gen++
	s.state = model.AccessEntitled
	return true
}

// Evaluate sets the context and runs the check synchronously.
func (s *AccessSession) Evaluate(ctx context.Context, checker EntitlementChecker, studentID, courseID string) model.AccessState {
	gen := s.SetContext(studentID, courseID)
	if s.State() == model.AccessChecking {
		s.Resolve(gen, checker.CheckEntitlement(ctx, studentID, courseID))
	}
	return s.State()
}

func (s *AccessSession) State() model.AccessState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Entitled is true only once a check or purchase has confirmed access.
func (s *AccessSession) Entitled() bool {
	return s.State() == model.AccessEntitled
}

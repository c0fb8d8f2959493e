package service

import (
	"context"
	"sort"
	"sync"

	"github.com/mbendali/recruitai/internal/apperr"
	"github.com/mbendali/recruitai/internal/model"
)

// memStore is a shared in-memory backing store for the fake repositories so
// cross-entity links (interview -> application -> offer/candidate) behave
// like the real database.
type memStore struct {
	mu sync.Mutex

	applications map[uint]model.Application
	interviews   map[uint]model.Interview
	messages     []model.ChatMessage

	nextInterviewID uint
	nextMessageID   uint

	// autoStarts counts SCHEDULED -> IN_PROGRESS transitions observed via
	// Update, for the concurrent-send guard assertion.
	autoStarts int
}

func newMemStore() *memStore {
	return &memStore{
		applications:    make(map[uint]model.Application),
		interviews:      make(map[uint]model.Interview),
		nextInterviewID: 1,
		nextMessageID:   1,
	}
}

func (s *memStore) putApplication(app model.Application) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applications[app.ID] = app
}

func (s *memStore) putInterview(iv model.Interview) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if iv.ID >= s.nextInterviewID {
		s.nextInterviewID = iv.ID + 1
	}
	s.interviews[iv.ID] = iv
}

func (s *memStore) interview(id uint) model.Interview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interviews[id]
}

func (s *memStore) application(id uint) model.Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applications[id]
}

func (s *memStore) messagesFor(interviewID uint) []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.ChatMessage
	for _, m := range s.messages {
		if m.InterviewID == interviewID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID < out[j].ID
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

type fakeInterviewRepo struct {
	store *memStore
}

func (r *fakeInterviewRepo) Create(interview *model.Interview) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	interview.ID = r.store.nextInterviewID
	r.store.nextInterviewID++
	r.store.interviews[interview.ID] = *interview
	return nil
}

func (r *fakeInterviewRepo) Update(interview *model.Interview) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if prev, ok := r.store.interviews[interview.ID]; ok {
		if prev.Status == model.InterviewScheduled && interview.Status == model.InterviewInProgress {
			r.store.autoStarts++
		}
	}
	stored := *interview
	stored.Application = model.Application{}
	r.store.interviews[interview.ID] = stored
	return nil
}

func (r *fakeInterviewRepo) FindByID(id uint) (*model.Interview, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	iv, ok := r.store.interviews[id]
	if !ok {
		return nil, apperr.NewNotFound("Interview", id)
	}
	return &iv, nil
}

func (r *fakeInterviewRepo) FindByIDWithDetails(id uint) (*model.Interview, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	iv, ok := r.store.interviews[id]
	if !ok {
		return nil, apperr.NewNotFound("Interview", id)
	}
	if app, ok := r.store.applications[iv.ApplicationID]; ok {
		iv.Application = app
	}
	return &iv, nil
}

func (r *fakeInterviewRepo) FindByApplicationID(applicationID uint) ([]model.Interview, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []model.Interview
	for _, iv := range r.store.interviews {
		if iv.ApplicationID == applicationID {
			out = append(out, iv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeChatMessageRepo struct {
	store *memStore
}

func (r *fakeChatMessageRepo) Create(message *model.ChatMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	message.ID = r.store.nextMessageID
	r.store.nextMessageID++
	r.store.messages = append(r.store.messages, *message)
	return nil
}

func (r *fakeChatMessageRepo) FindByInterviewIDOrderByTimestampAsc(interviewID uint) ([]model.ChatMessage, error) {
	return r.store.messagesFor(interviewID), nil
}

type fakeApplicationRepo struct {
	store *memStore
}

func (r *fakeApplicationRepo) FindByID(id uint) (*model.Application, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	app, ok := r.store.applications[id]
	if !ok {
		return nil, apperr.NewNotFound("Application", id)
	}
	return &app, nil
}

func (r *fakeApplicationRepo) Update(application *model.Application) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.applications[application.ID] = *application
	return nil
}

func (r *fakeApplicationRepo) UpdateStatus(id uint, status model.ApplicationStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	app, ok := r.store.applications[id]
	if !ok {
		return apperr.NewNotFound("Application", id)
	}
	app.Status = status
	r.store.applications[id] = app
	return nil
}

// fakeGenClient records calls and serves a canned response or error.
type fakeGenClient struct {
	mu        sync.Mutex
	response  string
	err       error
	calls     int
	lastTurns []GenTurn
	lastCfg   GenerationConfig
}

func (f *fakeGenClient) Generate(_ context.Context, turns []GenTurn, genCfg GenerationConfig) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastTurns = append([]GenTurn(nil), turns...)
	f.lastCfg = genCfg
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeGenClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

package service

import (
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/mbendali/recruitai/internal/apperr"
	"github.com/mbendali/recruitai/internal/dto"
	"github.com/mbendali/recruitai/internal/model"
	"github.com/mbendali/recruitai/internal/repository"
	"github.com/rs/zerolog/log"
)

// InterviewService owns the interview state machine:
// SCHEDULED -> IN_PROGRESS -> COMPLETED, with CANCELLED reachable from any
// non-completed state. COMPLETED and CANCELLED are terminal.
type InterviewService interface {
	ScheduleInterview(applicationID uint, req dto.ScheduleInterviewRequest) (*dto.InterviewResponse, error)
	StartInterview(interviewID uint) (*dto.InterviewResponse, error)
	CompleteInterview(interviewID uint, req dto.CompleteInterviewRequest) (*dto.InterviewResponse, error)
	CancelInterview(interviewID uint) (*dto.InterviewResponse, error)
	GetInterviewByID(interviewID uint) (*dto.InterviewResponse, error)
	GetInterviewsByApplicationID(applicationID uint) ([]dto.InterviewResponse, error)
}

type interviewService struct {
	interviewRepo   repository.InterviewRepository
	applicationRepo repository.ApplicationRepository
	locks           *InterviewLocks
}

func NewInterviewService(
	interviewRepo repository.InterviewRepository,
	applicationRepo repository.ApplicationRepository,
	locks *InterviewLocks,
) InterviewService {
	return &interviewService{
		interviewRepo:   interviewRepo,
		applicationRepo: applicationRepo,
		locks:           locks,
	}
}

func (s *interviewService) ScheduleInterview(applicationID uint, req dto.ScheduleInterviewRequest) (*dto.InterviewResponse, error) {
	log.Debug().Uint("applicationID", applicationID).Msg("Scheduling interview")

	application, err := s.applicationRepo.FindByID(applicationID)
	if err != nil {
		return nil, err
	}

	if application.Status != model.ApplicationReceived && application.Status != model.ApplicationUnderReview {
		log.Warn().Uint("applicationID", applicationID).Str("status", string(application.Status)).Msg("Attempted to schedule interview for application in unexpected status")
		return nil, apperr.NewInvalidState("cannot schedule interview for application with status %s", application.Status)
	}

	startTime := time.Now()
	if req.StartTime != nil {
		startTime = *req.StartTime
	}

	interview := model.Interview{
		ApplicationID: applicationID,
		Status:        model.InterviewScheduled,
		StartTime:     &startTime,
	}
	if err := s.interviewRepo.Create(&interview); err != nil {
		log.Error().Err(err).Uint("applicationID", applicationID).Msg("Failed to create interview")
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}

	application.Status = model.ApplicationInterviewScheduled
	if err := s.applicationRepo.Update(application); err != nil {
		log.Error().Err(err).Uint("applicationID", applicationID).Msg("Failed to update application status after scheduling")
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}

	log.Info().Uint("interviewID", interview.ID).Uint("applicationID", applicationID).Msg("Interview scheduled")
	return toInterviewResponse(&interview)
}

func (s *interviewService) StartInterview(interviewID uint) (*dto.InterviewResponse, error) {
	unlock := s.locks.Lock(interviewID)
	defer unlock()

	interview, err := s.interviewRepo.FindByID(interviewID)
	if err != nil {
		return nil, err
	}

	if interview.Status != model.InterviewScheduled {
		log.Warn().Uint("interviewID", interviewID).Str("status", string(interview.Status)).Msg("Attempted to start interview not in SCHEDULED status")
		return nil, apperr.NewInvalidState("interview can only be started if it is scheduled (current: %s)", interview.Status)
	}

	now := time.Now()
	interview.Status = model.InterviewInProgress
	interview.StartTime = &now
	if err := s.interviewRepo.Update(interview); err != nil {
		return nil, fmt.Errorf("failed to start interview %d: %w", interviewID, err)
	}

	log.Info().Uint("interviewID", interviewID).Msg("Interview started")
	return toInterviewResponse(interview)
}

func (s *interviewService) CompleteInterview(interviewID uint, req dto.CompleteInterviewRequest) (*dto.InterviewResponse, error) {
	unlock := s.locks.Lock(interviewID)
	defer unlock()

	interview, err := s.interviewRepo.FindByID(interviewID)
	if err != nil {
		return nil, err
	}

	if interview.Status != model.InterviewInProgress && interview.Status != model.InterviewPendingFeedback {
		log.Warn().Uint("interviewID", interviewID).Str("status", string(interview.Status)).Msg("Attempted to complete interview in invalid status")
		return nil, apperr.NewInvalidState("interview cannot be completed from status %s", interview.Status)
	}

	now := time.Now()
	interview.Status = model.InterviewCompleted
	interview.EndTime = &now
	if req.Score != nil {
		interview.AIEvaluationScore = req.Score
	}
	if req.Feedback != "" {
		interview.AIFeedback = req.Feedback
	}
	if err := s.interviewRepo.Update(interview); err != nil {
		return nil, fmt.Errorf("failed to complete interview %d: %w", interviewID, err)
	}

	if err := s.applicationRepo.UpdateStatus(interview.ApplicationID, model.ApplicationInterviewCompleted); err != nil {
		log.Warn().Err(err).Uint("applicationID", interview.ApplicationID).Msg("Failed to update application status after interview completion")
	}

	log.Info().Uint("interviewID", interviewID).Msg("Interview completed")
	return toInterviewResponse(interview)
}

func (s *interviewService) CancelInterview(interviewID uint) (*dto.InterviewResponse, error) {
	unlock := s.locks.Lock(interviewID)
	defer unlock()

	interview, err := s.interviewRepo.FindByID(interviewID)
	if err != nil {
		return nil, err
	}

	if interview.Status == model.InterviewCompleted {
		log.Warn().Uint("interviewID", interviewID).Msg("Attempted to cancel a completed interview")
		return nil, apperr.NewInvalidState("cannot cancel a completed interview")
	}

	now := time.Now()
	interview.Status = model.InterviewCancelled
	interview.EndTime = &now
	if err := s.interviewRepo.Update(interview); err != nil {
		return nil, fmt.Errorf("failed to cancel interview %d: %w", interviewID, err)
	}

	// Best effort: put the application back under review if the cancelled
	// interview was the reason it moved to INTERVIEW_SCHEDULED.
	application, appErr := s.applicationRepo.FindByID(interview.ApplicationID)
	if appErr == nil && application.Status == model.ApplicationInterviewScheduled {
		application.Status = model.ApplicationUnderReview
		if err := s.applicationRepo.Update(application); err != nil {
			log.Warn().Err(err).Uint("applicationID", application.ID).Msg("Failed to revert application status after cancellation")
		}
	}

	log.Info().Uint("interviewID", interviewID).Msg("Interview cancelled")
	return toInterviewResponse(interview)
}

func (s *interviewService) GetInterviewByID(interviewID uint) (*dto.InterviewResponse, error) {
	interview, err := s.interviewRepo.FindByID(interviewID)
	if err != nil {
		return nil, err
	}
	return toInterviewResponse(interview)
}

func (s *interviewService) GetInterviewsByApplicationID(applicationID uint) ([]dto.InterviewResponse, error) {
	interviews, err := s.interviewRepo.FindByApplicationID(applicationID)
	if err != nil {
		return nil, fmt.Errorf("error fetching interviews for application %d: %w", applicationID, err)
	}

	responses := make([]dto.InterviewResponse, 0, len(interviews))
	for i := range interviews {
		resp, err := toInterviewResponse(&interviews[i])
		if err != nil {
			log.Error().Err(err).Uint("interviewID", interviews[i].ID).Msg("Error converting interview to response")
			continue
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

func toInterviewResponse(interview *model.Interview) (*dto.InterviewResponse, error) {
	var resp dto.InterviewResponse
	if err := copier.Copy(&resp, interview); err != nil {
		return nil, fmt.Errorf("error preparing interview response: %w", err)
	}
	return &resp, nil
}

package service

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mbendali/recruitai/internal/dto"
	"github.com/mbendali/recruitai/internal/model"
	"github.com/mbendali/recruitai/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	evaluationFallbackRaw     = "SCORE: 0\nFEEDBACK: Technical error during AI evaluation."
	emptyHistoryFeedback      = "Evaluation impossible: no chat history."
	emptyResponseFeedback     = "Evaluation response empty or null."
	jobDescriptionExcerptSize = 200
)

var (
	evaluationGenerationConfig = GenerationConfig{Temperature: 0.5, MaxOutputTokens: 500}

	// Matches a line of the form "SCORE: 87" or "SCORE: 87.5".
	scoreLinePattern = regexp.MustCompile(`(?m)^SCORE:\s*(\d+(?:\.\d+)?)\s*$`)
)

// EvaluationResult is the parsed form of the model's evaluation response.
type EvaluationResult struct {
	Score    float64
	Feedback string
}

// EvaluationService produces the final AI evaluation of an interview: it
// assembles the transcript into a single evaluation prompt, parses the
// structured score/feedback reply and completes the interview.
type EvaluationService interface {
	EvaluateInterview(interviewID uint) (*dto.InterviewResponse, error)
}

type evaluationService struct {
	interviewRepo   repository.InterviewRepository
	chatRepo        repository.ChatMessageRepository
	applicationRepo repository.ApplicationRepository
	genClient       GenerativeClient
	locks           *InterviewLocks
}

func NewEvaluationService(
	interviewRepo repository.InterviewRepository,
	chatRepo repository.ChatMessageRepository,
	applicationRepo repository.ApplicationRepository,
	genClient GenerativeClient,
	locks *InterviewLocks,
) EvaluationService {
	return &evaluationService{
		interviewRepo:   interviewRepo,
		chatRepo:        chatRepo,
		applicationRepo: applicationRepo,
		genClient:       genClient,
		locks:           locks,
	}
}

func (s *evaluationService) EvaluateInterview(interviewID uint) (*dto.InterviewResponse, error) {
	log.Info().Uint("interviewID", interviewID).Msg("Starting evaluation process")

	unlock := s.locks.Lock(interviewID)
	defer unlock()

	interview, err := s.interviewRepo.FindByIDWithDetails(interviewID)
	if err != nil {
		return nil, err
	}

	// Idempotent guard: evaluating an already completed or cancelled
	// interview is a no-op, not an error.
	if interview.Status != model.InterviewInProgress && interview.Status != model.InterviewPendingFeedback {
		log.Warn().Uint("interviewID", interviewID).Str("status", string(interview.Status)).Msg("Interview not eligible for evaluation, returning unchanged")
		return toInterviewResponse(interview)
	}

	history, err := s.chatRepo.FindByInterviewIDOrderByTimestampAsc(interviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history for interview %d: %w", interviewID, err)
	}

	now := time.Now()
	if len(history) == 0 {
		log.Warn().Uint("interviewID", interviewID).Msg("No chat history found, completing interview without AI evaluation")
		zero := 0.0
		interview.AIEvaluationScore = &zero
		interview.AIFeedback = emptyHistoryFeedback
		interview.Status = model.InterviewCompleted
		interview.EndTime = &now
		if err := s.interviewRepo.Update(interview); err != nil {
			return nil, fmt.Errorf("failed to complete interview %d: %w", interviewID, err)
		}
		return toInterviewResponse(interview)
	}

	prompt := buildEvaluationPrompt(interview, history)
	log.Info().Uint("interviewID", interviewID).Msg("Calling generative API for final evaluation")

	raw, genErr := s.genClient.Generate(
		context.Background(),
		[]GenTurn{{Role: RoleUser, Text: prompt}},
		evaluationGenerationConfig,
	)
	if genErr != nil {
		log.Error().Err(genErr).Uint("interviewID", interviewID).Msg("Generative API call failed during evaluation, substituting fallback result")
		raw = evaluationFallbackRaw
	}

	result := parseEvaluationResponse(raw)

	interview.AIEvaluationScore = &result.Score
	interview.AIFeedback = result.Feedback
	interview.Status = model.InterviewCompleted
	interview.EndTime = &now
	if err := s.interviewRepo.Update(interview); err != nil {
		return nil, fmt.Errorf("failed to save evaluated interview %d: %w", interviewID, err)
	}

	log.Info().Uint("interviewID", interviewID).Float64("score", result.Score).Msg("Interview evaluated")

	if interview.Application.ID != 0 {
		if err := s.applicationRepo.UpdateStatus(interview.ApplicationID, model.ApplicationInterviewCompleted); err != nil {
			log.Warn().Err(err).Uint("applicationID", interview.ApplicationID).Msg("Failed to update application status after evaluation")
		} else {
			log.Info().Uint("applicationID", interview.ApplicationID).Msg("Application status updated to INTERVIEW_COMPLETED")
		}
	} else {
		log.Warn().Uint("interviewID", interviewID).Msg("Interview has no associated application to update")
	}

	return toInterviewResponse(interview)
}

func buildEvaluationPrompt(interview *model.Interview, history []model.ChatMessage) string {
	jobTitle := fallbackJobTitle
	jobDescription := ""
	if interview.Application.JobOffer.ID != 0 {
		jobTitle = interview.Application.JobOffer.Title
		jobDescription = interview.Application.JobOffer.Description
	}
	if len(jobDescription) > jobDescriptionExcerptSize {
		jobDescription = jobDescription[:jobDescriptionExcerptSize]
	}

	var b strings.Builder
	b.WriteString("JOB INTERVIEW ANALYSIS\n\n")
	b.WriteString("POSITION: " + jobTitle + "\n")
	b.WriteString("JOB DESCRIPTION (Excerpt): " + jobDescription + "...\n\n")

	b.WriteString("CONVERSATION TRANSCRIPT:\n")
	for _, msg := range history {
		if msg.FromBot {
			b.WriteString("AI Recruiter: ")
		} else {
			b.WriteString("Candidate: ")
		}
		b.WriteString(strings.ReplaceAll(msg.Content, "\n", "\n  "))
		b.WriteString("\n")
	}

	b.WriteString("\n------------------------------------\n")
	b.WriteString("INSTRUCTIONS FOR THE AI:\n")
	b.WriteString("1. Analyze the transcript above.\n")
	b.WriteString("2. Assess the relevance of the candidate's answers with regard to the position.\n")
	b.WriteString("3. Assess the key skills mentioned (if provided) or inferred.\n")
	b.WriteString("4. Provide concise, constructive feedback on the candidate's strengths and weaknesses.\n")
	b.WriteString("5. Assign an overall score out of 100 based on your evaluation.\n")
	b.WriteString("6. IMPORTANT: Structure your reply EXACTLY as follows:\n")
	b.WriteString("SCORE: [numeric score between 0 and 100]\n")
	b.WriteString("FEEDBACK: [your detailed analysis and feedback here]\n")

	return b.String()
}

// parseEvaluationResponse extracts the score and feedback from the raw model
// reply. Parsing never fails: a missing or unparsable score degrades to 0 and
// a missing FEEDBACK marker falls back to the entire raw response.
func parseEvaluationResponse(raw string) EvaluationResult {
	if strings.TrimSpace(raw) == "" {
		return EvaluationResult{Score: 0, Feedback: emptyResponseFeedback}
	}

	score := 0.0
	if m := scoreLinePattern.FindStringSubmatch(raw); m != nil {
		parsed, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			log.Warn().Str("score", m[1]).Msg("Could not parse score number from evaluation response")
		} else {
			score = math.Max(0, math.Min(100, parsed))
		}
	} else {
		log.Warn().Msg("Could not find 'SCORE: [number]' line in evaluation response")
	}

	var feedback string
	if idx := strings.Index(raw, "FEEDBACK:"); idx != -1 {
		feedback = strings.TrimSpace(raw[idx+len("FEEDBACK:"):])
	} else {
		log.Warn().Msg("Could not find 'FEEDBACK:' marker in evaluation response, using full response")
		feedback = raw
	}

	return EvaluationResult{Score: score, Feedback: feedback}
}

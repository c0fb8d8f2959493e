package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/mbendali/recruitai/internal/apperr"
	"github.com/mbendali/recruitai/internal/dto"
	"github.com/mbendali/recruitai/internal/model"
	"github.com/mbendali/recruitai/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	fallbackJobTitle      = "[Unspecified position]"
	fallbackCandidateName = "[Candidate]"

	// In-band reply used when the generative service cannot be reached.
	// The chat flow never surfaces a transport error to the caller.
	botUnreachableReply = "[Error: Unable to reach the AI service at the moment]"

	chatContextTemplate = "CONTEXT: You are an AI recruiter conducting a job interview for the position '%s'. " +
		"You are talking to the candidate %s. Continue the conversation in a professional manner " +
		"and ask relevant questions for this position."

	chatGreetingTemplate = "Hello %s! I am the AI assistant for your interview regarding the position '%s'. Ready to begin?"
)

var chatGenerationConfig = GenerationConfig{Temperature: 0.7, MaxOutputTokens: 250}

// ChatService drives the per-message exchange loop between the candidate and
// the AI recruiter, including the auto-start rule: a SCHEDULED interview moves
// to IN_PROGRESS on the candidate's first message.
type ChatService interface {
	ProcessCandidateMessage(interviewID uint, content string) (*dto.ChatMessageResponse, error)
	InitiateChat(interviewID uint) (*dto.ChatMessageResponse, error)
	SaveMessage(interviewID uint, content string, fromBot bool) (*dto.ChatMessageResponse, error)
	GetChatHistory(interviewID uint) ([]dto.ChatMessageResponse, error)
}

type chatService struct {
	interviewRepo repository.InterviewRepository
	chatRepo      repository.ChatMessageRepository
	genClient     GenerativeClient
	locks         *InterviewLocks
}

func NewChatService(
	interviewRepo repository.InterviewRepository,
	chatRepo repository.ChatMessageRepository,
	genClient GenerativeClient,
	locks *InterviewLocks,
) ChatService {
	return &chatService{
		interviewRepo: interviewRepo,
		chatRepo:      chatRepo,
		genClient:     genClient,
		locks:         locks,
	}
}

func (s *chatService) ProcessCandidateMessage(interviewID uint, content string) (*dto.ChatMessageResponse, error) {
	log.Debug().Uint("interviewID", interviewID).Msg("Processing candidate message")

	// Blank content is rejected at the boundary layer already; defend anyway.
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("chat message content cannot be blank")
	}

	unlock := s.locks.Lock(interviewID)
	defer unlock()

	if _, err := s.appendMessageLocked(interviewID, content, false); err != nil {
		return nil, err
	}

	interview, err := s.interviewRepo.FindByIDWithDetails(interviewID)
	if err != nil {
		return nil, err
	}
	jobTitle, candidateName := resolveChatContext(interview)

	history, err := s.chatRepo.FindByInterviewIDOrderByTimestampAsc(interviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history for interview %d: %w", interviewID, err)
	}

	log.Info().Uint("interviewID", interviewID).Str("jobTitle", jobTitle).Str("candidate", candidateName).Msg("Calling generative API for chat reply")

	turns := buildChatTurns(history, jobTitle, candidateName)
	reply, genErr := s.genClient.Generate(context.Background(), turns, chatGenerationConfig)
	if genErr != nil {
		log.Error().Err(genErr).Uint("interviewID", interviewID).Msg("Generative API call failed, substituting fallback reply")
		reply = botUnreachableReply
	}

	botMessage, err := s.appendMessageLocked(interviewID, reply, true)
	if err != nil {
		return nil, err
	}

	log.Info().Uint("interviewID", interviewID).Uint("messageID", botMessage.ID).Msg("Bot response saved")
	return toChatMessageResponse(botMessage)
}

func (s *chatService) InitiateChat(interviewID uint) (*dto.ChatMessageResponse, error) {
	unlock := s.locks.Lock(interviewID)
	defer unlock()

	interview, err := s.interviewRepo.FindByIDWithDetails(interviewID)
	if err != nil {
		return nil, err
	}
	jobTitle, candidateName := resolveChatContext(interview)

	greeting := fmt.Sprintf(chatGreetingTemplate, candidateName, jobTitle)
	message, err := s.appendMessageLocked(interviewID, greeting, true)
	if err != nil {
		return nil, err
	}
	return toChatMessageResponse(message)
}

func (s *chatService) SaveMessage(interviewID uint, content string, fromBot bool) (*dto.ChatMessageResponse, error) {
	unlock := s.locks.Lock(interviewID)
	defer unlock()

	message, err := s.appendMessageLocked(interviewID, content, fromBot)
	if err != nil {
		return nil, err
	}
	return toChatMessageResponse(message)
}

func (s *chatService) GetChatHistory(interviewID uint) ([]dto.ChatMessageResponse, error) {
	log.Debug().Uint("interviewID", interviewID).Msg("Fetching chat history")
	messages, err := s.chatRepo.FindByInterviewIDOrderByTimestampAsc(interviewID)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history for interview %d: %w", interviewID, err)
	}

	responses := make([]dto.ChatMessageResponse, 0, len(messages))
	for i := range messages {
		resp, err := toChatMessageResponse(&messages[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

// appendMessageLocked is the guarded append shared by every message-saving
// path. The caller must hold the interview's lock. Messages may only be
// appended while the interview is SCHEDULED, IN_PROGRESS or PENDING_FEEDBACK,
// and a candidate message to a SCHEDULED interview auto-starts it before the
// message becomes visible.
func (s *chatService) appendMessageLocked(interviewID uint, content string, fromBot bool) (*model.ChatMessage, error) {
	interview, err := s.interviewRepo.FindByID(interviewID)
	if err != nil {
		return nil, err
	}

	switch interview.Status {
	case model.InterviewScheduled, model.InterviewInProgress, model.InterviewPendingFeedback:
	default:
		log.Warn().Uint("interviewID", interviewID).Str("status", string(interview.Status)).Msg("Attempted to send message to interview in invalid status")
		return nil, apperr.NewInvalidState("cannot send messages to an interview that is not scheduled or in progress (current: %s)", interview.Status)
	}

	if interview.Status == model.InterviewScheduled && !fromBot {
		log.Info().Uint("interviewID", interviewID).Msg("Interview starting now (triggered by first candidate message)")
		now := time.Now()
		interview.Status = model.InterviewInProgress
		interview.StartTime = &now
		if err := s.interviewRepo.Update(interview); err != nil {
			return nil, fmt.Errorf("failed to auto-start interview %d: %w", interviewID, err)
		}
	}

	if interview.Status != model.InterviewInProgress && interview.Status != model.InterviewPendingFeedback {
		log.Warn().Uint("interviewID", interviewID).Str("status", string(interview.Status)).Msg("Attempted to send message to non-active interview")
		return nil, apperr.NewInvalidState("cannot send messages to an interview that is not in progress (current: %s)", interview.Status)
	}

	message := model.ChatMessage{
		InterviewID: interviewID,
		Content:     content,
		FromBot:     fromBot,
		Timestamp:   time.Now(),
	}
	if err := s.chatRepo.Create(&message); err != nil {
		return nil, fmt.Errorf("failed to save chat message for interview %d: %w", interviewID, err)
	}
	return &message, nil
}

// resolveChatContext follows Interview -> Application -> JobOffer/Candidate and
// falls back to placeholders when any link is missing. It never fails.
func resolveChatContext(interview *model.Interview) (jobTitle, candidateName string) {
	jobTitle = fallbackJobTitle
	candidateName = fallbackCandidateName

	if interview.Application.ID == 0 {
		return jobTitle, candidateName
	}
	if interview.Application.JobOffer.ID != 0 {
		jobTitle = interview.Application.JobOffer.Title
	}
	if interview.Application.Candidate.ID != 0 {
		candidateName = interview.Application.Candidate.FullName()
	}
	return jobTitle, candidateName
}

// buildChatTurns prepends the recruiter context turn and maps the history to
// alternating roles: bot messages as "model", candidate messages as "user".
func buildChatTurns(history []model.ChatMessage, jobTitle, candidateName string) []GenTurn {
	turns := make([]GenTurn, 0, len(history)+1)
	turns = append(turns, GenTurn{
		Role: RoleUser,
		Text: fmt.Sprintf(chatContextTemplate, jobTitle, candidateName),
	})
	for _, msg := range history {
		role := RoleUser
		if msg.FromBot {
			role = RoleModel
		}
		turns = append(turns, GenTurn{Role: role, Text: msg.Content})
	}
	return turns
}

func toChatMessageResponse(message *model.ChatMessage) (*dto.ChatMessageResponse, error) {
	var resp dto.ChatMessageResponse
	if err := copier.Copy(&resp, message); err != nil {
		return nil, fmt.Errorf("error preparing chat message response: %w", err)
	}
	return &resp, nil
}

package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mbendali/recruitai/internal/apperr"
	"github.com/mbendali/recruitai/internal/dto"
	"github.com/mbendali/recruitai/internal/service"
	"github.com/rs/zerolog/log"
)

type InterviewController struct {
	interviewSvc  service.InterviewService
	chatSvc       service.ChatService
	evaluationSvc service.EvaluationService
}

func NewInterviewController(
	interviewSvc service.InterviewService,
	chatSvc service.ChatService,
	evaluationSvc service.EvaluationService,
) *InterviewController {
	return &InterviewController{
		interviewSvc:  interviewSvc,
		chatSvc:       chatSvc,
		evaluationSvc: evaluationSvc,
	}
}

func (ctrl *InterviewController) RegisterRoutes(router *gin.Engine) {
	apiV1 := router.Group("/api/v1")
	{
		applications := apiV1.Group("/applications")
		applications.POST("/:application_id/interviews", ctrl.ScheduleInterview)
		applications.GET("/:application_id/interviews", ctrl.GetInterviewsForApplication)

		interviews := apiV1.Group("/interviews")
		interviews.GET("/:id", ctrl.GetInterview)
		interviews.POST("/:id/start", ctrl.StartInterview)
		interviews.POST("/:id/complete", ctrl.CompleteInterview)
		interviews.POST("/:id/cancel", ctrl.CancelInterview)
		interviews.GET("/:id/chat", ctrl.GetChatHistory)
		interviews.POST("/:id/chat", ctrl.PostChatMessage)
		interviews.POST("/:id/chat/init", ctrl.InitiateChat)
		interviews.POST("/:id/messages", ctrl.SaveMessage)
		interviews.POST("/:id/finish", ctrl.FinishAndEvaluateInterview)
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	idStr := c.Param(name)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(id), true
}

// respondServiceError maps the business error taxonomy onto HTTP statuses:
// NotFound -> 404, InvalidState -> 409, anything else -> 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case apperr.IsNotFound(err):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case apperr.IsInvalidState(err):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
}

// ScheduleInterview godoc
// @Summary Schedule an interview for an application
// @Description Creates a SCHEDULED interview and moves the application to INTERVIEW_SCHEDULED
// @Tags interviews
// @Accept json
// @Produce json
// @Param application_id path int true "Application ID"
// @Param interview body dto.ScheduleInterviewRequest true "Optional proposed start time"
// @Success 201 {object} dto.InterviewResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 409 {object} dto.ErrorResponse "Application status does not permit scheduling"
// @Router /applications/{application_id}/interviews [post]
func (ctrl *InterviewController) ScheduleInterview(c *gin.Context) {
	applicationID, ok := parseIDParam(c, "application_id")
	if !ok {
		return
	}

	var req dto.ScheduleInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.interviewSvc.ScheduleInterview(applicationID, req)
	if err != nil {
		log.Error().Err(err).Uint("applicationID", applicationID).Msg("Failed to schedule interview")
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetInterview godoc
// @Summary Get an interview by ID
// @Tags interviews
// @Produce json
// @Param id path int true "Interview ID"
// @Success 200 {object} dto.InterviewResponse
// @Failure 404 {object} dto.ErrorResponse "Interview not found"
// @Router /interviews/{id} [get]
func (ctrl *InterviewController) GetInterview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := ctrl.interviewSvc.GetInterviewByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetInterviewsForApplication godoc
// @Summary List interviews for an application
// @Tags interviews
// @Produce json
// @Param application_id path int true "Application ID"
// @Success 200 {array} dto.InterviewResponse
// @Router /applications/{application_id}/interviews [get]
func (ctrl *InterviewController) GetInterviewsForApplication(c *gin.Context) {
	applicationID, ok := parseIDParam(c, "application_id")
	if !ok {
		return
	}

	resp, err := ctrl.interviewSvc.GetInterviewsByApplicationID(applicationID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StartInterview godoc
// @Summary Start a scheduled interview
// @Tags interviews
// @Produce json
// @Param id path int true "Interview ID"
// @Success 200 {object} dto.InterviewResponse
// @Failure 404 {object} dto.ErrorResponse "Interview not found"
// @Failure 409 {object} dto.ErrorResponse "Interview is not in SCHEDULED status"
// @Router /interviews/{id}/start [post]
func (ctrl *InterviewController) StartInterview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := ctrl.interviewSvc.StartInterview(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CompleteInterview godoc
// @Summary Complete an interview
// @Description Completes an in-progress interview, optionally storing a score and feedback
// @Tags interviews
// @Accept json
// @Produce json
// @Param id path int true "Interview ID"
// @Param completion body dto.CompleteInterviewRequest false "Optional score and feedback"
// @Success 200 {object} dto.InterviewResponse
// @Failure 404 {object} dto.ErrorResponse "Interview not found"
// @Failure 409 {object} dto.ErrorResponse "Interview cannot be completed from its current status"
// @Router /interviews/{id}/complete [post]
func (ctrl *InterviewController) CompleteInterview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CompleteInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.interviewSvc.CompleteInterview(id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CancelInterview godoc
// @Summary Cancel an interview
// @Tags interviews
// @Produce json
// @Param id path int true "Interview ID"
// @Success 200 {object} dto.InterviewResponse
// @Failure 404 {object} dto.ErrorResponse "Interview not found"
// @Failure 409 {object} dto.ErrorResponse "Completed interviews cannot be cancelled"
// @Router /interviews/{id}/cancel [post]
func (ctrl *InterviewController) CancelInterview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := ctrl.interviewSvc.CancelInterview(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetChatHistory godoc
// @Summary Get the chat history of an interview
// @Tags chat
// @Produce json
// @Param id path int true "Interview ID"
// @Success 200 {array} dto.ChatMessageResponse
// @Router /interviews/{id}/chat [get]
func (ctrl *InterviewController) GetChatHistory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := ctrl.chatSvc.GetChatHistory(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PostChatMessage godoc
// @Summary Send a candidate message to the interview chat
// @Description Persists the candidate message, calls the AI recruiter and returns its reply
// @Tags chat
// @Accept json
// @Produce json
// @Param id path int true "Interview ID"
// @Param message body dto.PostChatMessageRequest true "Candidate message"
// @Success 200 {object} dto.ChatMessageResponse
// @Failure 400 {object} dto.ErrorResponse "Blank message content"
// @Failure 404 {object} dto.ErrorResponse "Interview not found"
// @Failure 409 {object} dto.ErrorResponse "Interview does not accept messages"
// @Router /interviews/{id}/chat [post]
func (ctrl *InterviewController) PostChatMessage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.PostChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.chatSvc.ProcessCandidateMessage(id, req.Content)
	if err != nil {
		log.Error().Err(err).Uint("interviewID", id).Msg("Failed to process candidate message")
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// InitiateChat godoc
// @Summary Seed the interview conversation with the bot greeting
// @Tags chat
// @Produce json
// @Param id path int true "Interview ID"
// @Success 201 {object} dto.ChatMessageResponse
// @Failure 404 {object} dto.ErrorResponse "Interview not found"
// @Failure 409 {object} dto.ErrorResponse "Interview does not accept messages"
// @Router /interviews/{id}/chat/init [post]
func (ctrl *InterviewController) InitiateChat(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := ctrl.chatSvc.InitiateChat(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// SaveMessage godoc
// @Summary Persist a chat message without triggering an AI reply
// @Tags chat
// @Accept json
// @Produce json
// @Param id path int true "Interview ID"
// @Param message body dto.SaveMessageRequest true "Message to store"
// @Success 201 {object} dto.ChatMessageResponse
// @Failure 404 {object} dto.ErrorResponse "Interview not found"
// @Failure 409 {object} dto.ErrorResponse "Interview does not accept messages"
// @Router /interviews/{id}/messages [post]
func (ctrl *InterviewController) SaveMessage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SaveMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.chatSvc.SaveMessage(id, req.Content, req.FromBot)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// FinishAndEvaluateInterview godoc
// @Summary Finish the interview and run the AI evaluation
// @Description Builds the evaluation prompt from the transcript, stores score and feedback, completes the interview
// @Tags interviews
// @Produce json
// @Param id path int true "Interview ID"
// @Success 200 {object} dto.InterviewResponse
// @Failure 404 {object} dto.ErrorResponse "Interview not found"
// @Router /interviews/{id}/finish [post]
func (ctrl *InterviewController) FinishAndEvaluateInterview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := ctrl.evaluationSvc.EvaluateInterview(id)
	if err != nil {
		log.Error().Err(err).Uint("interviewID", id).Msg("Failed to evaluate interview")
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

package service

import (
	"testing"

	"github.com/mbendali/recruitai/internal/dto"
	"github.com/mbendali/recruitai/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Full scenario: schedule an interview, exchange the first message (which
// auto-starts it), then run the AI evaluation.
func TestInterviewLifecycleEndToEnd(t *testing.T) {
	env := newTestEnv()
	env.seedApplication(model.ApplicationReceived)

	scheduled, err := env.interviewSvc.ScheduleInterview(1, dto.ScheduleInterviewRequest{})
	require.NoError(t, err)
	assert.Equal(t, model.InterviewScheduled, scheduled.Status)
	assert.Equal(t, model.ApplicationInterviewScheduled, env.store.application(1).Status)

	env.genClient.response = "Welcome Alice! What draws you to this role?"
	reply, err := env.chatSvc.ProcessCandidateMessage(scheduled.ID, "Hello")
	require.NoError(t, err)
	assert.True(t, reply.FromBot)

	interview := env.store.interview(scheduled.ID)
	assert.Equal(t, model.InterviewInProgress, interview.Status)
	require.NotNil(t, interview.StartTime)

	messages := env.store.messagesFor(scheduled.ID)
	require.Len(t, messages, 2)
	assert.Equal(t, "Hello", messages[0].Content)
	assert.False(t, messages[0].FromBot)
	assert.True(t, messages[1].FromBot)

	env.genClient.response = "SCORE: 82\nFEEDBACK: Communicates clearly, solid fundamentals."
	evaluated, err := env.evaluationSvc.EvaluateInterview(scheduled.ID)
	require.NoError(t, err)

	assert.Equal(t, model.InterviewCompleted, evaluated.Status)
	require.NotNil(t, evaluated.AIEvaluationScore)
	assert.Equal(t, 82.0, *evaluated.AIEvaluationScore)
	assert.Equal(t, "Communicates clearly, solid fundamentals.", evaluated.AIFeedback)
	assert.Equal(t, model.ApplicationInterviewCompleted, env.store.application(1).Status)
}

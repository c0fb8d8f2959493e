package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/mbendali/recruitai/internal/apperr"
	"github.com/mbendali/recruitai/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvaluationResponse(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantScore    float64
		wantFeedback string
	}{
		{
			name:         "well formed",
			raw:          "SCORE: 87\nFEEDBACK: Strong technical answers.",
			wantScore:    87.0,
			wantFeedback: "Strong technical answers.",
		},
		{
			name:         "decimal score",
			raw:          "SCORE: 72.5\nFEEDBACK: Decent.",
			wantScore:    72.5,
			wantFeedback: "Decent.",
		},
		{
			name:         "score above range is clamped",
			raw:          "SCORE: 150\nFEEDBACK: x",
			wantScore:    100.0,
			wantFeedback: "x",
		},
		{
			name:         "negative score does not match and stays zero",
			raw:          "SCORE: -5\nFEEDBACK: x",
			wantScore:    0.0,
			wantFeedback: "x",
		},
		{
			name:         "no structure falls back to full response",
			raw:          "no structure here",
			wantScore:    0.0,
			wantFeedback: "no structure here",
		},
		{
			name:         "score line not on first line",
			raw:          "Here is my assessment.\nSCORE: 64\nFEEDBACK: Needs improvement.",
			wantScore:    64.0,
			wantFeedback: "Needs improvement.",
		},
		{
			name:         "blank response",
			raw:          "   \n ",
			wantScore:    0.0,
			wantFeedback: emptyResponseFeedback,
		},
		{
			name:         "multiline feedback preserved",
			raw:          "SCORE: 90\nFEEDBACK: Good depth.\nCould improve on system design.",
			wantScore:    90.0,
			wantFeedback: "Good depth.\nCould improve on system design.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseEvaluationResponse(tt.raw)
			assert.Equal(t, tt.wantScore, result.Score)
			assert.Equal(t, tt.wantFeedback, result.Feedback)
		})
	}
}

func TestEvaluateInterviewEmptyHistorySkipsAICall(t *testing.T) {
	env := newTestEnv()
	env.seedApplication(model.ApplicationInterviewScheduled)
	env.seedInterview(model.InterviewInProgress)

	resp, err := env.evaluationSvc.EvaluateInterview(1)
	require.NoError(t, err)

	assert.Equal(t, model.InterviewCompleted, resp.Status)
	require.NotNil(t, resp.AIEvaluationScore)
	assert.Equal(t, 0.0, *resp.AIEvaluationScore)
	assert.Equal(t, emptyHistoryFeedback, resp.AIFeedback)
	assert.NotNil(t, resp.EndTime)
	assert.Equal(t, 0, env.genClient.callCount())
}

func TestEvaluateInterviewNoOpWhenNotEligible(t *testing.T) {
	for _, status := range []model.InterviewStatus{
		model.InterviewScheduled,
		model.InterviewCompleted,
		model.InterviewCancelled,
	} {
		env := newTestEnv()
		env.seedApplication(model.ApplicationInterviewScheduled)
		env.seedInterview(status)

		resp, err := env.evaluationSvc.EvaluateInterview(1)
		require.NoError(t, err, "evaluate on %s should not error", status)

		assert.Equal(t, status, resp.Status)
		assert.Nil(t, resp.AIEvaluationScore)
		assert.Equal(t, 0, env.genClient.callCount())
	}
}

func TestEvaluateInterviewNotFound(t *testing.T) {
	env := newTestEnv()

	_, err := env.evaluationSvc.EvaluateInterview(404)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestEvaluateInterviewFullFlow(t *testing.T) {
	env := newTestEnv()
	env.seedApplication(model.ApplicationInterviewScheduled)
	env.seedInterview(model.InterviewInProgress)
	env.genClient.response = "SCORE: 87\nFEEDBACK: Strong technical answers."

	_, err := env.chatSvc.SaveMessage(1, "Tell me about Go concurrency.", true)
	require.NoError(t, err)
	_, err = env.chatSvc.SaveMessage(1, "Goroutines are multiplexed onto OS threads.", false)
	require.NoError(t, err)

	resp, err := env.evaluationSvc.EvaluateInterview(1)
	require.NoError(t, err)

	assert.Equal(t, model.InterviewCompleted, resp.Status)
	require.NotNil(t, resp.AIEvaluationScore)
	assert.Equal(t, 87.0, *resp.AIEvaluationScore)
	assert.Equal(t, "Strong technical answers.", resp.AIFeedback)
	assert.NotNil(t, resp.EndTime)

	assert.Equal(t, model.ApplicationInterviewCompleted, env.store.application(1).Status)
	assert.Equal(t, 1, env.genClient.callCount())
}

func TestEvaluateInterviewPromptContents(t *testing.T) {
	env := newTestEnv()
	app := env.seedApplication(model.ApplicationInterviewScheduled)
	app.JobOffer.Description = strings.Repeat("a", 300)
	env.store.putApplication(app)
	env.seedInterview(model.InterviewInProgress)
	env.genClient.response = "SCORE: 50\nFEEDBACK: ok"

	_, err := env.chatSvc.SaveMessage(1, "What are your strengths?", true)
	require.NoError(t, err)
	_, err = env.chatSvc.SaveMessage(1, "Persistence.", false)
	require.NoError(t, err)

	_, err = env.evaluationSvc.EvaluateInterview(1)
	require.NoError(t, err)

	require.Len(t, env.genClient.lastTurns, 1)
	prompt := env.genClient.lastTurns[0].Text
	assert.Equal(t, RoleUser, env.genClient.lastTurns[0].Role)

	assert.Contains(t, prompt, "POSITION: Backend Engineer")
	assert.Contains(t, prompt, "AI Recruiter: What are your strengths?")
	assert.Contains(t, prompt, "Candidate: Persistence.")
	assert.Contains(t, prompt, "SCORE: [numeric score between 0 and 100]")
	assert.Contains(t, prompt, "FEEDBACK: [your detailed analysis and feedback here]")

	// The job description is truncated to a 200 character excerpt.
	assert.NotContains(t, prompt, strings.Repeat("a", 201))
	assert.Contains(t, prompt, strings.Repeat("a", 200))

	assert.Equal(t, 0.5, env.genClient.lastCfg.Temperature)
	assert.Equal(t, 500, env.genClient.lastCfg.MaxOutputTokens)
}

func TestEvaluateInterviewAIFailureYieldsFallbackResult(t *testing.T) {
	env := newTestEnv()
	env.seedApplication(model.ApplicationInterviewScheduled)
	env.seedInterview(model.InterviewInProgress)
	env.genClient.err = errors.New("boom")

	_, err := env.chatSvc.SaveMessage(1, "Hello", false)
	require.NoError(t, err)

	resp, err := env.evaluationSvc.EvaluateInterview(1)
	require.NoError(t, err)

	assert.Equal(t, model.InterviewCompleted, resp.Status)
	require.NotNil(t, resp.AIEvaluationScore)
	assert.Equal(t, 0.0, *resp.AIEvaluationScore)
	assert.Equal(t, "Technical error during AI evaluation.", resp.AIFeedback)
}

func TestEvaluateInterviewIsIdempotent(t *testing.T) {
	env := newTestEnv()
	env.seedApplication(model.ApplicationInterviewScheduled)
	env.seedInterview(model.InterviewInProgress)
	env.genClient.response = "SCORE: 60\nFEEDBACK: fine"

	_, err := env.chatSvc.SaveMessage(1, "Hi", false)
	require.NoError(t, err)

	first, err := env.evaluationSvc.EvaluateInterview(1)
	require.NoError(t, err)
	second, err := env.evaluationSvc.EvaluateInterview(1)
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, *first.AIEvaluationScore, *second.AIEvaluationScore)
	assert.Equal(t, 1, env.genClient.callCount())
}

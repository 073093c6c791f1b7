package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicedesk/internal/domain"
	"voicedesk/internal/store"
)

func TestScenarioLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateTestScenario(ctx, &domain.TestScenario{
		Name:            "book exam for existing patient",
		Category:        "booking",
		Status:          domain.ScenarioActive,
		ExpectedOutcome: "appointment booked",
		ValidationRules: map[string]any{"must_call": "book_appointment"},
	})
	require.NoError(t, err)
	_, err = s.CreateTestScenario(ctx, &domain.TestScenario{
		Name:     "cancel without booking id",
		Category: "cancellation",
		Status:   domain.ScenarioDraft,
	})
	require.NoError(t, err)

	booking, err := s.ListTestScenarios(ctx, store.TestScenarioFilter{Category: "booking"})
	require.NoError(t, err)
	require.Len(t, booking, 1)
	assert.Equal(t, "book_appointment", booking[0].ValidationRules["must_call"])

	active, err := s.ListTestScenarios(ctx, store.TestScenarioFilter{Status: domain.ScenarioActive})
	require.NoError(t, err)
	assert.Len(t, active, 1)

	deprecated := domain.ScenarioDeprecated
	require.NoError(t, s.UpdateTestScenario(ctx, id, domain.TestScenarioUpdate{Status: &deprecated}))
	got, err := s.GetTestScenario(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.ScenarioDeprecated, got.Status)
}

func TestExecutionGrading(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	scenarioID, err := s.CreateTestScenario(ctx, &domain.TestScenario{
		Name:            "confirmation sms",
		Category:        "sms",
		Status:          domain.ScenarioActive,
		ExpectedOutcome: "confirmation sent",
	})
	require.NoError(t, err)

	for _, actual := range []string{
		"Done, confirmation sent to your phone.",
		"I could not reach the SMS service.",
	} {
		_, err := s.CreateTestExecution(ctx, &domain.TestExecution{
			ScenarioID: scenarioID,
			TestStatus: domain.EvaluateOutcome("confirmation sent", actual),
			Expected:   "confirmation sent",
			Actual:     actual,
			ExecutedAt: time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	executions, err := s.ListTestExecutions(ctx, scenarioID)
	require.NoError(t, err)
	require.Len(t, executions, 2)
	statuses := map[domain.TestStatus]int{}
	for _, e := range executions {
		statuses[e.TestStatus]++
	}
	assert.Equal(t, 1, statuses[domain.TestPass])
	assert.Equal(t, 1, statuses[domain.TestFail])
}

func TestSkillLogsOrderedBySteps(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	convID, err := s.CreateConversation(ctx, &domain.Conversation{
		PhoneNumber: "+15556660000",
		Direction:   domain.DirectionInbound,
		Provider:    domain.ProviderOpenAI,
		StartedAt:   time.Now().UTC(),
	})
	require.NoError(t, err)

	steps := []struct {
		n    int
		name string
	}{
		{2, "confirm slot"},
		{1, "find patient"},
		{3, "send sms"},
	}
	for _, step := range steps {
		_, err := s.CreateSkillLog(ctx, &domain.SkillExecutionLog{
			ConversationID: convID,
			SkillName:      "book_appointment",
			StepNumber:     step.n,
			StepName:       step.name,
			Status:         domain.SkillSuccess,
		})
		require.NoError(t, err)
	}

	logs, err := s.ListSkillLogs(ctx, convID)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "find patient", logs[0].StepName)
	assert.Equal(t, "confirm slot", logs[1].StepName)
	assert.Equal(t, "send sms", logs[2].StepName)
}

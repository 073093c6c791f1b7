package domain

import (
	"strings"
	"time"
)

// ScenarioStatus tracks whether a test scenario is still maintained
type ScenarioStatus string

const (
	ScenarioActive     ScenarioStatus = "active"
	ScenarioDeprecated ScenarioStatus = "deprecated"
	ScenarioDraft      ScenarioStatus = "draft"
)

// TestStatus is the outcome of one scenario execution
type TestStatus string

const (
	TestPass    TestStatus = "pass"
	TestFail    TestStatus = "fail"
	TestError   TestStatus = "error"
	TestSkipped TestStatus = "skipped"
)

// SkillStatus is the outcome of one skill step within a call
type SkillStatus string

const (
	SkillSuccess SkillStatus = "success"
	SkillFailure SkillStatus = "failure"
	SkillSkipped SkillStatus = "skipped"
)

// TestScenario is a scripted call used for regression testing the agent.
type TestScenario struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Category        string         `json:"category"`
	Status          ScenarioStatus `json:"status"`
	Description     string         `json:"description,omitempty"`
	ExpectedOutcome string         `json:"expected_outcome,omitempty"`
	ValidationRules map[string]any `json:"validation_rules,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// TestExecution is one run of a scenario against the live agent.
type TestExecution struct {
	ID         string     `json:"id"`
	ScenarioID string     `json:"scenario_id"`
	TestStatus TestStatus `json:"test_status"`
	Expected   string     `json:"expected,omitempty"`
	Actual     string     `json:"actual,omitempty"`
	Diff       string     `json:"diff,omitempty"`
	ExecutedAt time.Time  `json:"executed_at"`
}

// SkillExecutionLog records one step of a multi-step skill within a call.
type SkillExecutionLog struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversation_id"`
	SkillName      string      `json:"skill_name"`
	StepNumber     int         `json:"step_number"`
	StepName       string      `json:"step_name"`
	ToolUsed       string      `json:"tool_used,omitempty"`
	Status         SkillStatus `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
}

// TestScenarioUpdate is a sparse update; only non-nil fields are written.
type TestScenarioUpdate struct {
	Name            *string         `json:"name,omitempty"`
	Category        *string         `json:"category,omitempty"`
	Status          *ScenarioStatus `json:"status,omitempty"`
	Description     *string         `json:"description,omitempty"`
	ExpectedOutcome *string         `json:"expected_outcome,omitempty"`
	ValidationRules *map[string]any `json:"validation_rules,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u TestScenarioUpdate) IsEmpty() bool {
	return u.Name == nil && u.Category == nil && u.Status == nil &&
		u.Description == nil && u.ExpectedOutcome == nil && u.ValidationRules == nil
}

// EvaluateOutcome grades an execution's actual transcript against the
// scenario's expected outcome. A scenario with no expected outcome
// passes automatically; substring match otherwise.
func EvaluateOutcome(expected, actual string) TestStatus {
	expected = strings.TrimSpace(expected)
	if expected == "" {
		return TestPass
	}
	if strings.Contains(strings.ToLower(actual), strings.ToLower(expected)) {
		return TestPass
	}
	return TestFail
}

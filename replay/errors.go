package replay

import "fmt"

type ReplayError struct {
	StepIndex int32          `json:"step_index"`
	Reason    string         `json:"reason"`
	Message   string         `json:"message"`
	Expected  *ExpectedState `json:"expected,omitempty"`
}

// ExpectedState tells the author of a failing script what the engine was
// waiting for.
type ExpectedState struct {
	Phase       string `json:"phase"`
	ActionSeat  int    `json:"action_seat"`
	HukumCaller int    `json:"hukum_caller"`
	LeadSuit    string `json:"lead_suit,omitempty"`
}

func (e *ReplayError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("replay error(step=%d reason=%s): %s", e.StepIndex, e.Reason, e.Message)
}

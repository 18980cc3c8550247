package domain

// PlatformStatus is the judge-reported absolute state of one platform.
type PlatformStatus struct {
	PlatformName string `json:"platform_name"`
	PlayerTrust  int    `json:"player_trust"`
	AITrust      int    `json:"ai_trust"`
	SpreadRate   int    `json:"spread_rate"`
}

// Evaluation is the judge's verdict on an action, before or after tool
// composition.
type Evaluation struct {
	TrustChange       int              `json:"trust_change"`
	SpreadChange      int              `json:"spread_change"`
	ReachCount        int              `json:"reach_count"`
	Effectiveness     Effectiveness    `json:"effectiveness"`
	SimulatedComments []string         `json:"simulated_comments"`
	PlatformStatus    []PlatformStatus `json:"platform_status"`
}

// Validate checks the fields a judge must always return.
func (e Evaluation) Validate() error {
	if !e.Effectiveness.Valid() {
		return NewValidationError("INVALID_EFFECTIVENESS", "effectiveness must be low, medium or high",
			map[string]any{"effectiveness": string(e.Effectiveness)})
	}
	return nil
}

// GameEndResult is the outcome of an end-of-game evaluation.
type GameEndResult struct {
	IsEnded bool           `json:"is_ended"`
	Reason  EndReason      `json:"reason"`
	Winner  Winner         `json:"winner"`
	Details map[string]any `json:"details"`
}

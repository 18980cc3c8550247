package domain

// ToolEffects holds the multipliers a tool applies to an action's deltas.
type ToolEffects struct {
	TrustMultiplier  float64 `json:"trust_multiplier" yaml:"trust_multiplier"`
	SpreadMultiplier float64 `json:"spread_multiplier" yaml:"spread_multiplier"`
}

// DomainTool represents a catalog tool.
type DomainTool struct {
	Name               string        `json:"tool_name" yaml:"tool_name"`
	Description        string        `json:"description" yaml:"description"`
	ApplicableTo       Applicability `json:"applicable_to" yaml:"applicable_to"`
	Effects            ToolEffects   `json:"effects" yaml:"effects"`
	AvailableFromRound int           `json:"available_from_round" yaml:"available_from_round"`
}

// Validate checks the catalog invariants of a tool definition.
func (t DomainTool) Validate() error {
	if t.Name == "" {
		return NewValidationError("INVALID_TOOL", "tool name is required", nil)
	}
	if !t.ApplicableTo.Valid() {
		return NewValidationError("INVALID_TOOL", "invalid applicable_to for tool "+t.Name,
			map[string]any{"tool_name": t.Name, "applicable_to": string(t.ApplicableTo)})
	}
	if t.AvailableFromRound < 1 {
		return NewValidationError("INVALID_TOOL", "available_from_round must be >= 1 for tool "+t.Name,
			map[string]any{"tool_name": t.Name})
	}
	return nil
}

// CanBeUsedBy reports whether the actor is eligible for the tool.
func (t DomainTool) CanBeUsedBy(actor Actor) bool {
	return t.ApplicableTo.Allows(actor)
}

// AvailableIn reports whether the tool is unlocked in the given round.
func (t DomainTool) AvailableIn(round int) bool {
	return t.AvailableFromRound <= round
}

// AppliedToolEffectDetail is the per-tool ledger entry of one composition.
type AppliedToolEffectDetail struct {
	ToolName                 string `json:"tool_name"`
	AppliedTrustEffectValue  int    `json:"applied_trust_effect_value"`
	AppliedSpreadEffectValue int    `json:"applied_spread_effect_value"`
	IsEffective              bool   `json:"is_effective"`
}

// ToolRef names a tool declared in a turn.
type ToolRef struct {
	ToolName string `json:"tool_name"`
}

// ToolUsage is a persisted ledger row referencing an action.
type ToolUsage struct {
	ID           int64  `json:"id"`
	ActionID     int64  `json:"action_id"`
	ToolName     string `json:"tool_name"`
	TrustEffect  int    `json:"trust_effect"`
	SpreadEffect int    `json:"spread_effect"`
	IsEffective  bool   `json:"is_effective"`
}

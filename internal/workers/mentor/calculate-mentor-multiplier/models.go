package calculatementormultiplier

import "mentor-pricing-workers/internal/pricing"

// Input carries either the raw attributes inline or a mentorId to load them.
// Inline attributes win when both are present.
type Input struct {
	MentorID   string              `json:"mentorId,omitempty"`
	Attributes *pricing.Attributes `json:"attributes,omitempty"`
}

type Output struct {
	MentorID string `json:"mentorId,omitempty"`
	pricing.Result
	PricingMode string                 `json:"pricingMode"`
	Breakdown   []pricing.BreakdownRow `json:"breakdown"`
}

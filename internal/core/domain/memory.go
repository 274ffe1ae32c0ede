package domain

import "time"

// ConfidenceReinforcement is added on each repeated induction of an
// already-known rule, capped at 1.0. Confidence never decreases.
const ConfidenceReinforcement = 0.05

// ExtractionPattern recovers a missing field from raw document text.
// Identity: (vendor, field, regex).
type ExtractionPattern struct {
	Field      string    `json:"field" yaml:"field"`
	Regex      string    `json:"regex" yaml:"regex"`
	Confidence float64   `json:"confidence" yaml:"confidence"`
	UsageCount int       `json:"usage_count" yaml:"usage_count"`
	LastUsed   time.Time `json:"last_used" yaml:"last_used"`
}

// ValueCorrection is a deterministic value-mapping rule.
// Identity: (vendor, field, trigger_value, corrected_value).
// An empty TriggerValue means the rule is unconditional.
type ValueCorrection struct {
	Field          string  `json:"field" yaml:"field"`
	TriggerValue   string  `json:"trigger_value,omitempty" yaml:"trigger_value,omitempty"`
	CorrectedValue string  `json:"corrected_value" yaml:"corrected_value"`
	Condition      string  `json:"condition,omitempty" yaml:"condition,omitempty"`
	Confidence     float64 `json:"confidence" yaml:"confidence"`
	UsageCount     int     `json:"usage_count" yaml:"usage_count"`
}

// ConditionAlways makes a non-line-item correction apply even when the
// field already holds a value.
const ConditionAlways = "always"

// VendorMemory aggregates everything learned about one vendor.
type VendorMemory struct {
	Vendor      string              `json:"vendor" yaml:"vendor"`
	Patterns    []ExtractionPattern `json:"patterns" yaml:"patterns"`
	Corrections []ValueCorrection   `json:"corrections" yaml:"corrections"`
}

// Reinforce returns the confidence after one more observation.
func Reinforce(confidence float64) float64 {
	confidence += ConfidenceReinforcement
	if confidence > 1.0 {
		return 1.0
	}
	return confidence
}

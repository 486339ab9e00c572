// internal/pricing/validation.go
package pricing

import (
	"fmt"
	"strings"
)

// FieldIssue describes one rejected attribute.
type FieldIssue struct {
	Field  string      `json:"field"`
	Value  interface{} `json:"value,omitempty"`
	Reason string      `json:"reason"`
}

// ValidationError is returned by ValidateAttributes when at least one numeric
// field is malformed or out of range.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field, issue.Reason))
	}
	return "invalid mentor attributes: " + strings.Join(parts, "; ")
}

const (
	minRating = 0.0
	maxRating = 5.0
)

// ValidateAttributes checks the numeric fields of attrs. Absent values are
// accepted; categorical labels are never rejected since unknown labels already
// score as zero.
func ValidateAttributes(attrs Attributes) error {
	var issues []FieldIssue

	check := func(field string, raw interface{}, inRange func(float64) bool, rangeReason string) {
		if isAbsent(raw) {
			return
		}
		v, ok := parseFloat(raw)
		if !ok {
			issues = append(issues, FieldIssue{Field: field, Value: raw, Reason: "not a finite number"})
			return
		}
		if !inRange(v) {
			issues = append(issues, FieldIssue{Field: field, Value: raw, Reason: rangeReason})
		}
	}

	nonNegative := func(v float64) bool { return v >= 0 }

	check("workExperience", attrs.WorkExperience, nonNegative, "must not be negative")
	check("mentorRating", attrs.MentorRating, func(v float64) bool {
		return v >= minRating && v <= maxRating
	}, "must be between 0.0 and 5.0")
	check("ratingCount", attrs.RatingCount, nonNegative, "must not be negative")

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// CalculateStrict validates attrs before pricing them.
func CalculateStrict(attrs Attributes) (Result, error) {
	if err := ValidateAttributes(attrs); err != nil {
		return Result{}, err
	}
	return Calculate(attrs), nil
}

func isAbsent(raw interface{}) bool {
	if raw == nil {
		return true
	}
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		return true
	}
	return false
}

// internal/pricing/attributes.go
package pricing

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Attributes is the raw mentor record as collected by the mentor form.
// Numeric fields accept JSON numbers or numeric strings.
type Attributes struct {
	WorkExperience      interface{} `json:"workExperience"`
	Company             string      `json:"company,omitempty"`
	CompanyTier         string      `json:"companyTier"`
	College             string      `json:"college,omitempty"`
	CollegeTier         string      `json:"collegeTier"`
	CurrentRole         string      `json:"currentRole"`
	NicheSkills         string      `json:"nicheSkills"`
	InterviewExperience string      `json:"interviewExperience"`
	MentorRating        interface{} `json:"mentorRating"`
	RatingCount         interface{} `json:"ratingCount,omitempty"`
}

// ParseNumber coerces a raw numeric field. Missing, malformed and non-finite
// values resolve to 0.
func ParseNumber(raw interface{}) float64 {
	v, ok := parseFloat(raw)
	if !ok {
		return 0
	}
	return v
}

// maxCount bounds ParseCount so huge inputs cannot overflow int.
const maxCount = math.MaxInt32

// ParseCount coerces a raw count, truncating toward zero and clamping to
// [-maxCount, maxCount].
func ParseCount(raw interface{}) int {
	v := ParseNumber(raw)
	switch {
	case v >= maxCount:
		return maxCount
	case v <= -maxCount:
		return -maxCount
	}
	return int(v)
}

func parseFloat(raw interface{}) (float64, bool) {
	var v float64
	switch n := raw.(type) {
	case nil:
		return 0, false
	case float64:
		v = n
	case float32:
		v = float64(n)
	case int:
		v = float64(n)
	case int32:
		v = float64(n)
	case int64:
		v = float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		v = f
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}


// internal/pricing/aggregator.go
package pricing

import "fmt"

const (
	// BaseRate is the reference price before the multiplier is applied.
	BaseRate = 500

	// MaxMultiplier caps the multiplier regardless of the weighted score.
	MaxMultiplier = 2.5

	// MultiplierSlope is the multiplier gained per weighted-score point.
	MultiplierSlope = 0.15
)

// The aggregator works in integer units so totals and rounding are exact:
// weighted points are Σ score × weight percent (0..1000, i.e. score × 100),
// the multiplier is kept in ten-thousandths.
const (
	multiplierUnit    = 10000
	slopePerPoint     = 15 // MultiplierSlope × multiplierUnit / 100
	maxMultiplierRaw  = 25000
	multiplierDecimal = 1000
)

// Dimension names one scored attribute.
type Dimension string

const (
	DimensionExperience Dimension = "experience"
	DimensionCompany    Dimension = "company"
	DimensionCollege    Dimension = "college"
	DimensionRating     Dimension = "rating"
	DimensionRole       Dimension = "role"
	DimensionNiche      Dimension = "niche"
	DimensionInterview  Dimension = "interview"
)

type dimensionWeight struct {
	dimension Dimension
	percent   int
}

// Fixed weights in percent; they sum to exactly 100.
var weights = [...]dimensionWeight{
	{DimensionExperience, 40},
	{DimensionCompany, 25},
	{DimensionCollege, 5},
	{DimensionRating, 15},
	{DimensionRole, 5},
	{DimensionNiche, 5},
	{DimensionInterview, 5},
}

// Dimensions returns the scored dimensions in weight-table order.
func Dimensions() []Dimension {
	out := make([]Dimension, len(weights))
	for i, w := range weights {
		out[i] = w.dimension
	}
	return out
}

// WeightPercent returns the weight of d in percent, or 0 for an unknown dimension.
func WeightPercent(d Dimension) int {
	for _, w := range weights {
		if w.dimension == d {
			return w.percent
		}
	}
	return 0
}

// Weight returns the weight of d as a fraction of 1.
func Weight(d Dimension) float64 {
	return float64(WeightPercent(d)) / 100
}

// Scores holds the seven dimension scores, each in [0, 10].
type Scores struct {
	Experience int
	Company    int
	College    int
	Rating     int
	Role       int
	Niche      int
	Interview  int
}

// Of returns the score for d.
func (s Scores) Of(d Dimension) int {
	switch d {
	case DimensionExperience:
		return s.Experience
	case DimensionCompany:
		return s.Company
	case DimensionCollege:
		return s.College
	case DimensionRating:
		return s.Rating
	case DimensionRole:
		return s.Role
	case DimensionNiche:
		return s.Niche
	case DimensionInterview:
		return s.Interview
	}
	return 0
}

func (s Scores) weightedPoints() int {
	points := 0
	for _, w := range weights {
		points += s.Of(w.dimension) * w.percent
	}
	return points
}

// Result is the outcome of one pricing calculation.
type Result struct {
	ExperienceScore    int     `json:"experienceScore"`
	CompanyScore       int     `json:"companyScore"`
	CollegeScore       int     `json:"collegeScore"`
	RatingScore        int     `json:"ratingScore"`
	RoleScore          int     `json:"roleScore"`
	NicheScore         int     `json:"nicheScore"`
	InterviewScore     int     `json:"interviewScore"`
	TotalWeightedScore string  `json:"totalWeightedScore"`
	Multiplier         float64 `json:"multiplier"`
	FinalPrice         int     `json:"finalPrice"`
}

// Scores returns the dimension scores carried by r.
func (r Result) Scores() Scores {
	return Scores{
		Experience: r.ExperienceScore,
		Company:    r.CompanyScore,
		College:    r.CollegeScore,
		Rating:     r.RatingScore,
		Role:       r.RoleScore,
		Niche:      r.NicheScore,
		Interview:  r.InterviewScore,
	}
}

// Score computes every dimension score for attrs after coercing the numeric
// fields.
func Score(attrs Attributes) Scores {
	return Scores{
		Experience: ExperienceScore(ParseNumber(attrs.WorkExperience)),
		Company:    CompanyScore(attrs.CompanyTier),
		College:    CollegeScore(attrs.CollegeTier),
		Rating:     RatingScore(ParseNumber(attrs.MentorRating), ParseCount(attrs.RatingCount)),
		Role:       RoleScore(attrs.CurrentRole),
		Niche:      NicheScore(attrs.NicheSkills),
		Interview:  InterviewScore(attrs.InterviewExperience),
	}
}

// Calculate prices a mentor from raw attributes. It never fails: unknown labels
// and malformed numbers score as zero (role as 5).
func Calculate(attrs Attributes) Result {
	return Aggregate(Score(attrs))
}

// Aggregate combines dimension scores into the weighted total, the capped
// multiplier and the final price.
func Aggregate(s Scores) Result {
	points := s.weightedPoints()

	raw := multiplierUnit + slopePerPoint*points
	if raw > maxMultiplierRaw {
		raw = maxMultiplierRaw
	}

	// Half-up rounding on non-negative integers.
	thousandths := (raw + 5) / 10
	price := (raw*BaseRate + multiplierUnit/2) / multiplierUnit

	return Result{
		ExperienceScore:    s.Experience,
		CompanyScore:       s.Company,
		CollegeScore:       s.College,
		RatingScore:        s.Rating,
		RoleScore:          s.Role,
		NicheScore:         s.Niche,
		InterviewScore:     s.Interview,
		TotalWeightedScore: fmt.Sprintf("%d.%02d", points/100, points%100),
		Multiplier:         float64(thousandths) / multiplierDecimal,
		FinalPrice:         price,
	}
}

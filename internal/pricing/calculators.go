// internal/pricing/calculators.go
package pricing

// MinRatingCount is the number of ratings below which the average is ignored.
const MinRatingCount = 20

type threshold struct {
	bound float64
	score int
}

// Inclusive upper bounds, scanned in ascending order.
var experienceBuckets = []threshold{
	{2, 0},
	{4, 2},
	{6, 5},
	{8, 7},
	{12, 9},
}

const experienceCeilingScore = 10

// Inclusive lower bounds, scanned in descending order.
var ratingBuckets = []threshold{
	{4.8, 10},
	{4.5, 9},
	{4.0, 7},
	{3.8, 5},
	{3.5, 4},
}

var companyScores = map[string]int{
	"tier1": 10,
	"tier2": 7,
	"tier3": 4,
}

var collegeScores = map[string]int{
	"tier1": 10,
	"tier2": 5,
	"tier3": 0,
}

var nicheScores = map[string]int{
	"niche":       10,
	"high-demand": 8,
	"none":        0,
}

var interviewScores = map[string]int{
	"tier1-2": 10,
	"other":   5,
	"none":    0,
}

const (
	seniorRoleScore  = 10
	defaultRoleScore = 5
)

// ExperienceScore maps years of experience to a score. Negative years land in
// the first bucket.
func ExperienceScore(years float64) int {
	for _, b := range experienceBuckets {
		if years <= b.bound {
			return b.score
		}
	}
	return experienceCeilingScore
}

func CompanyScore(tier string) int {
	return lookup(companyScores, tier)
}

func CollegeScore(tier string) int {
	return lookup(collegeScores, tier)
}

// RatingScore ignores the average entirely until it is backed by
// MinRatingCount ratings.
func RatingScore(rating float64, count int) int {
	if count < MinRatingCount {
		return 0
	}
	for _, b := range ratingBuckets {
		if rating >= b.bound {
			return b.score
		}
	}
	return 0
}

// RoleScore has no zero outcome: anything that is not senior scores 5.
func RoleScore(role string) int {
	if role == "senior" {
		return seniorRoleScore
	}
	return defaultRoleScore
}

func NicheScore(label string) int {
	return lookup(nicheScores, label)
}

// InterviewScore keeps "none" as its own table entry even though it scores
// the same as an unknown label.
func InterviewScore(label string) int {
	return lookup(interviewScores, label)
}

func lookup(table map[string]int, label string) int {
	if score, ok := table[label]; ok {
		return score
	}
	return 0
}

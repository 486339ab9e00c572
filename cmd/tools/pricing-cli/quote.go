package main

import (
	"encoding/json"
	"fmt"
	"os"

	"mentor-pricing-workers/internal/pricing"

	"github.com/spf13/cobra"
)

type quoteOptions struct {
	input       string
	strict      bool
	attrs       pricing.Attributes
	experience  string
	rating      string
	ratingCount string
}

type quoteOutput struct {
	pricing.Result
	Breakdown []pricing.BreakdownRow `json:"breakdown"`
}

func newQuoteCmd() *cobra.Command {
	opts := &quoteOptions{}
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a mentor from raw attributes",
		Long: "Computes the seven dimension scores, the weighted total, the capped multiplier and the final price. " +
			"Attributes come from --in (a JSON record) and/or individual flags; flags override the file.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuote(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.input, "in", "i", "", "Path to a JSON mentor record (optional)")
	f.BoolVar(&opts.strict, "strict", false, "Reject malformed or out-of-range numeric fields")
	f.StringVar(&opts.experience, "experience", "", "Years of work experience")
	f.StringVar(&opts.attrs.Company, "company", "", "Company name (informational)")
	f.StringVar(&opts.attrs.CompanyTier, "company-tier", "", "Company tier label")
	f.StringVar(&opts.attrs.College, "college", "", "College name (informational)")
	f.StringVar(&opts.attrs.CollegeTier, "college-tier", "", "College tier label")
	f.StringVar(&opts.attrs.CurrentRole, "role", "", "Current role label")
	f.StringVar(&opts.attrs.NicheSkills, "niche", "", "Niche skills label")
	f.StringVar(&opts.attrs.InterviewExperience, "interview", "", "Interview experience label")
	f.StringVar(&opts.rating, "rating", "", "Mentor rating (0.0-5.0)")
	f.StringVar(&opts.ratingCount, "rating-count", "", "Number of ratings")
	return cmd
}

func runQuote(cmd *cobra.Command, opts *quoteOptions) error {
	attrs, err := opts.resolve(cmd)
	if err != nil {
		return err
	}

	var result pricing.Result
	if opts.strict {
		result, err = pricing.CalculateStrict(attrs)
		if err != nil {
			return err
		}
	} else {
		result = pricing.Calculate(attrs)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(quoteOutput{Result: result, Breakdown: result.Breakdown()})
}

// resolve merges the --in record with any flags the caller set explicitly.
func (o *quoteOptions) resolve(cmd *cobra.Command) (pricing.Attributes, error) {
	var attrs pricing.Attributes
	if o.input != "" {
		content, err := os.ReadFile(o.input)
		if err != nil {
			return attrs, fmt.Errorf("failed to read mentor record: %w", err)
		}
		if err := json.Unmarshal(content, &attrs); err != nil {
			return attrs, fmt.Errorf("failed to unmarshal mentor record JSON: %w", err)
		}
	}

	flags := cmd.Flags()
	strField := func(name string, dst *string, val string) {
		if flags.Changed(name) {
			*dst = val
		}
	}
	rawField := func(name string, dst *interface{}, val string) {
		if flags.Changed(name) {
			*dst = val
		}
	}

	strField("company", &attrs.Company, o.attrs.Company)
	strField("company-tier", &attrs.CompanyTier, o.attrs.CompanyTier)
	strField("college", &attrs.College, o.attrs.College)
	strField("college-tier", &attrs.CollegeTier, o.attrs.CollegeTier)
	strField("role", &attrs.CurrentRole, o.attrs.CurrentRole)
	strField("niche", &attrs.NicheSkills, o.attrs.NicheSkills)
	strField("interview", &attrs.InterviewExperience, o.attrs.InterviewExperience)
	rawField("experience", &attrs.WorkExperience, o.experience)
	rawField("rating", &attrs.MentorRating, o.rating)
	rawField("rating-count", &attrs.RatingCount, o.ratingCount)

	return attrs, nil
}

package gateway

import (
	"context"
	"log"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/career-assistant/internal/types"
)

// maxEnrichConcurrency bounds parallel upstream calls during enrichment.
const maxEnrichConcurrency = 4

type catalogEntry struct {
	code, title, salary, growth, description string
	match                                    float64
	skills                                   []string
	demand                                   types.DemandLevel
	education, experience                    string
	median                                   int
	outlook, series                          string
}

var careerCatalog = []catalogEntry{
	{
		code:        "15-1252.00",
		title:       "Software Developer",
		match:       94,
		salary:      "$85,000 - $150,000",
		growth:      "+22% (Much faster than average)",
		description: "Develop, create, and modify general computer applications software or specialized utility programs.",
		skills:      []string{"JavaScript", "Python", "SQL", "Algorithms", "Debugging"},
		demand:      types.DemandHigh,
		education:   "Bachelor's degree in Computer Science",
		experience:  "2-5 years",
		median:      110000,
		outlook:     "Excellent",
		series:      "OEUM003018000000000000005",
	},
	{
		code:        "15-2051.00",
		title:       "Data Scientist",
		match:       88,
		salary:      "$95,000 - $165,000",
		growth:      "+31% (Much faster than average)",
		description: "Analyze and interpret complex digital data to assist decision-making.",
		skills:      []string{"Python", "Machine Learning", "Statistics", "Data Visualization", "SQL"},
		demand:      types.DemandHigh,
		education:   "Master's degree in Data Science or related field",
		experience:  "3-6 years",
		median:      125000,
		outlook:     "Excellent",
		series:      "OEUM004018000000000000005",
	},
	{
		code:        "27-1014.00",
		title:       "UX Designer",
		match:       85,
		salary:      "$70,000 - $120,000",
		growth:      "+13% (Faster than average)",
		description: "Create user-friendly digital experiences and interfaces.",
		skills:      []string{"Figma", "User Research", "Prototyping", "Adobe Creative Suite"},
		demand:      types.DemandMedium,
		education:   "Bachelor's degree in Design or related field",
		experience:  "2-4 years",
		median:      95000,
		outlook:     "Good",
		series:      "OEUM005018000000000000005",
	},
}

// CareerCatalog returns the static occupation recommendations with links to
// the data endpoints describing each one.
func CareerCatalog() []types.CareerRecommendation {
	out := make([]types.CareerRecommendation, len(careerCatalog))
	for i, e := range careerCatalog {
		out[i] = types.CareerRecommendation{
			ID:                 e.code,
			Title:              e.title,
			MatchPercent:       e.match,
			SalaryRange:        e.salary,
			GrowthOutlook:      e.growth,
			Description:        e.description,
			Skills:             append([]string(nil), e.skills...),
			DemandLevel:        e.demand,
			Education:          e.education,
			ExperienceRequired: e.experience,
			ONetCode:           e.code,
			BLSSeries:          e.series,
			MedianSalary:       e.median,
			JobOutlook:         e.outlook,
			APIEndpoints: &types.APIEndpoints{
				BLS:  "/api/bls?" + url.Values{"seriesId": {e.series}}.Encode(),
				ONet: "/api/onet?" + url.Values{"onetCode": {e.code}}.Encode(),
				Jobs: "/api/adzuna?" + url.Values{"query": {e.title}}.Encode(),
			},
		}
	}
	return out
}

// Enrich fetches the occupation summary and wage series of every
// recommendation concurrently and attaches them in place. Any failure that
// survives the fallback policy aborts the whole enrichment.
func (g *Gateway) Enrich(ctx context.Context, recs []types.CareerRecommendation) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxEnrichConcurrency)

	occupations := make([]*types.ONetSummary, len(recs))
	wages := make([]*types.BLSSeries, len(recs))

	for i := range recs {
		if code := recs[i].ONetCode; code != "" {
			eg.Go(func() error {
				summary, err := g.ONet.FetchSummary(ctx, code)
				if err != nil {
					return err
				}
				occupations[i] = summary
				return nil
			})
		}
		if series := recs[i].BLSSeries; series != "" {
			eg.Go(func() error {
				resp, err := g.BLS.FetchSeries(ctx, series, "", "")
				if err != nil {
					return err
				}
				if len(resp.Results.Series) > 0 {
					s := resp.Results.Series[0]
					wages[i] = &s
				}
				return nil
			})
		}
	}

	if err := eg.Wait(); err != nil {
		log.Printf("[gateway] Career enrichment failed: %v", err)
		return err
	}

	for i := range recs {
		if occupations[i] == nil && wages[i] == nil {
			continue
		}
		recs[i].Enrichment = &types.Enrichment{Occupation: occupations[i], Wages: wages[i]}
	}
	return nil
}

package extraction

import "github.com/jonathan/career-assistant/internal/types"

// Score ranges of the default analysis, half-open.
const (
	defaultScoreMin    = 65
	defaultScoreSpread = 15
	defaultATSMin      = 60
	defaultATSSpread   = 20
)

// FallbackCareers returns the example career recommendations.
func FallbackCareers() []types.CareerRecommendation {
	return []types.CareerRecommendation{
		{
			ID:                 "1",
			Title:              "Full Stack Developer",
			MatchPercent:       85,
			SalaryRange:        "$80,000 - $140,000",
			GrowthOutlook:      "+22% (Much faster than average)",
			Description:        "Develop end-to-end web applications with modern frameworks.",
			Skills:             []string{"JavaScript", "React", "Node.js", "Databases"},
			DemandLevel:        types.DemandHigh,
			Education:          "Bachelor's degree in Computer Science",
			ExperienceRequired: "2+ years",
		},
		{
			ID:                 "2",
			Title:              "Data Engineer",
			MatchPercent:       78,
			SalaryRange:        "$90,000 - $150,000",
			GrowthOutlook:      "+28% (Much faster than average)",
			Description:        "Design and maintain data pipelines and infrastructure.",
			Skills:             []string{"Python", "SQL", "ETL", "Cloud"},
			DemandLevel:        types.DemandHigh,
			Education:          "Bachelor's degree",
			ExperienceRequired: "3+ years",
		},
		{
			ID:                 "3",
			Title:              "DevOps Engineer",
			MatchPercent:       72,
			SalaryRange:        "$95,000 - $160,000",
			GrowthOutlook:      "+25% (Much faster than average)",
			Description:        "Implement CI/CD pipelines and cloud infrastructure.",
			Skills:             []string{"AWS", "Docker", "Kubernetes", "CI/CD"},
			DemandLevel:        types.DemandHigh,
			Education:          "Bachelor's degree",
			ExperienceRequired: "3+ years",
		},
	}
}

// FallbackCourses returns the example learning roadmap.
func FallbackCourses() []types.CourseRecommendation {
	return []types.CourseRecommendation{
		{
			ID:            "1",
			Title:         "Full Stack Fundamentals",
			Provider:      "Coursera",
			Duration:      "4 weeks",
			Level:         "Beginner",
			Rating:        4.7,
			EnrolledCount: "50K",
			Price:         "Free",
			Skills:        []string{"HTML", "CSS", "JavaScript"},
		},
		{
			ID:            "2",
			Title:         "React Development",
			Provider:      "Udemy",
			Duration:      "6 weeks",
			Level:         "Intermediate",
			Rating:        4.6,
			EnrolledCount: "35K",
			Price:         "$89",
			Skills:        []string{"React", "Redux", "Hooks"},
		},
		{
			ID:            "3",
			Title:         "Node.js Backend Development",
			Provider:      "Pluralsight",
			Duration:      "8 weeks",
			Level:         "Intermediate",
			Rating:        4.5,
			EnrolledCount: "25K",
			Price:         "$99",
			Skills:        []string{"Node.js", "Express", "MongoDB"},
		},
	}
}

// FallbackJobs returns the example job listings.
func FallbackJobs() []types.JobListing {
	return []types.JobListing{
		{
			ID:          "1",
			Title:       "Senior Frontend Developer",
			Company:     "TechCorp",
			Location:    "San Francisco, CA (Remote)",
			SalaryRange: "$120,000 - $160,000",
			PostedAt:    "2 days ago",
			Description: "We are looking for an experienced frontend developer to join our team.",
			Skills:      []string{"React", "TypeScript", "CSS"},
			URL:         "#",
		},
		{
			ID:          "2",
			Title:       "Data Scientist",
			Company:     "DataSystems",
			Location:    "New York, NY",
			SalaryRange: "$110,000 - $150,000",
			PostedAt:    "1 week ago",
			Description: "Join our data science team to build advanced machine learning models.",
			Skills:      []string{"Python", "Machine Learning", "SQL"},
			URL:         "#",
		},
	}
}

// DefaultAnalysis returns the example résumé analysis. The overall score is drawn
// from [65,80) and the ATS score from [60,80) using intn.
func DefaultAnalysis(intn func(n int) int) *types.ResumeAnalysis {
	return &types.ResumeAnalysis{
		OverallScore: float64(defaultScoreMin + intn(defaultScoreSpread)),
		ATSScore:     float64(defaultATSMin + intn(defaultATSSpread)),
		Strengths: []string{
			"Clear work history with relevant experience",
			"Good educational background",
			"Technical skills well-presented",
		},
		Improvements: []string{
			"Add more quantifiable achievements",
			"Include more industry-specific keywords",
			"Expand leadership experience sections",
		},
		ImprovedSections: []types.ImprovedSection{
			{
				Original:    "Developed features for web application",
				Improved:    "Built 5 major features for customer portal using React, increasing user engagement by 30%",
				Explanation: "Added specific technologies and measurable impact",
			},
		},
		KeywordAnalysis: types.KeywordAnalysis{
			Missing:     []string{"Agile", "CI/CD", "REST APIs"},
			Overused:    []string{"Responsible for", "Worked on"},
			Recommended: []string{"Architected", "Optimized", "Delivered"},
		},
		ScoreBreakdown: types.ScoreBreakdown{
			Content:      70,
			Structure:    65,
			ATS:          75,
			Achievements: 60,
		},
	}
}

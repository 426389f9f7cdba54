package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// UserProfile holds optional, session-scoped details used to fill gaps in generated documents.
type UserProfile struct {
	Name            string   `json:"name"`
	Email           string   `json:"email" validate:"omitempty,email"`
	TargetRole      string   `json:"targetRole"`
	ExperienceLevel string   `json:"experienceLevel"`
	Education       string   `json:"education"`
	Skills          []string `json:"skills"`
}

// Validate validates the UserProfile using the validator.
func (p *UserProfile) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// Normalize trims fields and de-duplicates skills case-insensitively, keeping the
// first spelling and original order.
func (p UserProfile) Normalize() UserProfile {
	out := UserProfile{
		Name:            strings.TrimSpace(p.Name),
		Email:           strings.TrimSpace(p.Email),
		TargetRole:      strings.TrimSpace(p.TargetRole),
		ExperienceLevel: strings.TrimSpace(p.ExperienceLevel),
		Education:       strings.TrimSpace(p.Education),
	}
	seen := make(map[string]bool, len(p.Skills))
	for _, skill := range p.Skills {
		skill = strings.TrimSpace(skill)
		key := strings.ToLower(skill)
		if skill == "" || seen[key] {
			continue
		}
		seen[key] = true
		out.Skills = append(out.Skills, skill)
	}
	return out
}

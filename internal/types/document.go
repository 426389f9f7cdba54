package types

// Contact holds the contact block of a résumé document.
type Contact struct {
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Location string   `json:"location"`
	Links    []string `json:"links"`
}

// Entry is a named line of a résumé section, e.g. "Acme Corp: Built the billing service".
type Entry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ResumeDocument is the normalized content handed to the document generator.
type ResumeDocument struct {
	Name       string              `json:"name"`
	Contact    Contact             `json:"contact"`
	Summary    string              `json:"summary"`
	Experience []Entry             `json:"experience"`
	Education  []Entry             `json:"education"`
	Skills     map[string][]string `json:"skills"`
	Projects   []Entry             `json:"projects"`
}

package types

type Category string

const (
	CategoryError      Category = "error"
	CategoryWarning    Category = "warning"
	CategorySuggestion Category = "suggestion"
	CategoryAccolade   Category = "accolade"
)

// Finding is a single classified validation message.
type Finding struct {
	Category Category `yaml:"category"`
	Message  string   `yaml:"message"`
}

func (f Finding) String() string {
	return f.Message
}

// ValidationResult holds the findings of one app. It is built by the
// validators and not modified after it has been returned.
type ValidationResult struct {
	Errors        []Finding `yaml:"errors"`
	Warnings      []Finding `yaml:"warnings"`
	Suggestions   []Finding `yaml:"suggestions"`
	Accolades     []Finding `yaml:"accolades"`
	RepoURL       string    `yaml:"repo_url,omitempty"`
	Owner         string    `yaml:"owner,omitempty"`
	LatestRelease string    `yaml:"latest_release,omitempty"`
}

func (r *ValidationResult) Add(category Category, message string) {
	finding := Finding{Category: category, Message: message}
	switch category {
	case CategoryError:
		r.Errors = append(r.Errors, finding)
	case CategoryWarning:
		r.Warnings = append(r.Warnings, finding)
	case CategorySuggestion:
		r.Suggestions = append(r.Suggestions, finding)
	case CategoryAccolade:
		r.Accolades = append(r.Accolades, finding)
	}
}

func (r *ValidationResult) AddError(message string)      { r.Add(CategoryError, message) }
func (r *ValidationResult) AddWarning(message string)    { r.Add(CategoryWarning, message) }
func (r *ValidationResult) AddSuggestion(message string) { r.Add(CategorySuggestion, message) }
func (r *ValidationResult) AddAccolade(message string)   { r.Add(CategoryAccolade, message) }

// Merge appends the findings of other in category order.
func (r *ValidationResult) Merge(other ValidationResult) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Suggestions = append(r.Suggestions, other.Suggestions...)
	r.Accolades = append(r.Accolades, other.Accolades...)
}

func (r ValidationResult) Totals() Totals {
	return Totals{
		Errors:      len(r.Errors),
		Warnings:    len(r.Warnings),
		Suggestions: len(r.Suggestions),
		Accolades:   len(r.Accolades),
	}
}

// Messages returns the plain texts of the given findings.
func Messages(findings []Finding) []string {
	out := make([]string, 0, len(findings))
	for _, finding := range findings {
		out = append(out, finding.Message)
	}
	return out
}

type Totals struct {
	Errors      int `yaml:"errors"`
	Warnings    int `yaml:"warnings"`
	Suggestions int `yaml:"suggestions"`
	Accolades   int `yaml:"accolades"`
}

func (t Totals) Add(other Totals) Totals {
	return Totals{
		Errors:      t.Errors + other.Errors,
		Warnings:    t.Warnings + other.Warnings,
		Suggestions: t.Suggestions + other.Suggestions,
		Accolades:   t.Accolades + other.Accolades,
	}
}

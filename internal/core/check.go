package core

import "catalog-audit/internal/types"

// CheckOptions holds the candidate messages of one policy rule. Empty
// strings are treated as not given.
type CheckOptions struct {
	Error      string
	Warning    string
	Suggestion string
	Accolade   string
}

// Check records at most one finding for a rule. A passing condition
// yields the accolade, if any. A failing condition yields the first
// given of error, warning and suggestion.
func Check(result *types.ValidationResult, condition bool, opts CheckOptions) {
	if condition {
		if opts.Accolade != "" {
			result.AddAccolade(opts.Accolade)
		}
		return
	}
	switch {
	case opts.Error != "":
		result.AddError(opts.Error)
	case opts.Warning != "":
		result.AddWarning(opts.Warning)
	case opts.Suggestion != "":
		result.AddSuggestion(opts.Suggestion)
	}
}

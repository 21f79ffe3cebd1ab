package core

import (
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"catalog-audit/internal/policies"
	"catalog-audit/internal/types"
)

// ValidateReadme classifies fetched README content. Length and placeholder
// findings are independent of each other.
func ValidateReadme(url string, status int, content string) types.ValidationResult {
	var result types.ValidationResult
	if status == 0 || status >= http.StatusBadRequest {
		result.AddError(fmt.Sprintf("Error fetching README URL %s: status %d", url, status))
		return result
	}
	length := utf8.RuneCountInString(content)
	switch {
	case length < policies.ReadmeMinLength:
		result.AddError("README content too short")
	case length < policies.ReadmeGoodLength:
		result.AddWarning("README content could be longer")
	default:
		result.AddAccolade(fmt.Sprintf("README content appears reasonably long (%d chars)", length))
	}
	if strings.Contains(content, policies.ReadmePlaceholder) {
		result.AddError(fmt.Sprintf("README contains placeholder `%s`", policies.ReadmePlaceholder))
	}
	return result
}

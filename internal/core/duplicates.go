package core

import (
	"fmt"

	"catalog-audit/internal/types"
)

// DuplicateURLs returns the URLs that occur more than once.
func DuplicateURLs(urls []string) map[string]struct{} {
	seen := make(map[string]struct{}, len(urls))
	dupes := map[string]struct{}{}
	for _, url := range urls {
		if _, ok := seen[url]; ok {
			dupes[url] = struct{}{}
			continue
		}
		seen[url] = struct{}{}
	}
	return dupes
}

// checkDuplicateURLs emits one warning per occurrence of a duplicated URL.
func checkDuplicateURLs(result *types.ValidationResult, urls []string) {
	dupes := DuplicateURLs(urls)
	if len(dupes) == 0 {
		return
	}
	for _, url := range urls {
		_, duplicated := dupes[url]
		Check(result, !duplicated, CheckOptions{
			Warning: fmt.Sprintf("URL is used in more than one field: `%s`", url),
		})
	}
}

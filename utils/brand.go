package utils

import "strings"

// Supported laptop brands, in match-priority order
var brandTokens = []string{"Dell", "HP", "Lenovo"}

// BrandFromModel resolves a laptop model string to one of the supported
// brands by case-insensitive substring match, first match wins. An
// unrecognized model returns "" and downstream brand-specific features
// (technician listing, renewal info) render nothing.
func BrandFromModel(model string) string {
	lower := strings.ToLower(model)
	for _, brand := range brandTokens {
		if strings.Contains(lower, strings.ToLower(brand)) {
			return brand
		}
	}
	return ""
}

package utils

// RenewalInfo describes how to extend an expired warranty for a brand
type RenewalInfo struct {
	Steps   []string `json:"steps"`
	Link    string   `json:"link"`
	Pricing string   `json:"pricing"`
}

var renewalByBrand = map[string]RenewalInfo{
	"Dell": {
		Steps: []string{
			"Visit Dell's warranty extension website",
			"Enter your service tag to check eligibility",
			"Select your preferred extension period (1-3 years)",
			"Make payment online",
			"Receive confirmation email with updated warranty details",
		},
		Link:    "https://www.dell.com/support/contractservices/en-in",
		Pricing: "Starting at $99/year for basic coverage",
	},
	"HP": {
		Steps: []string{
			"Go to HP Care Pack purchase page",
			"Enter your product number or select your model",
			"Choose your Care Pack option",
			"Complete the purchase",
			"Your warranty will be automatically updated",
		},
		Link:    "https://www.hp.com/in-en/shop/carepack/warranty.html",
		Pricing: "Starting at $129/year for basic coverage",
	},
	"Lenovo": {
		Steps: []string{
			"Visit Lenovo's warranty upgrade site",
			"Enter your serial number",
			"Select your upgrade options",
			"Proceed to checkout",
			"Your warranty status will update within 24 hours",
		},
		Link:    "https://pcsupport.lenovo.com/in/en/warranty-lookup#/",
		Pricing: "Starting at $89/year for basic coverage",
	},
}

// WarrantyRenewalInfo returns the renewal guidance for a brand.
// Unknown brands return ok=false and the portal shows nothing.
func WarrantyRenewalInfo(brand string) (RenewalInfo, bool) {
	info, ok := renewalByBrand[brand]
	return info, ok
}

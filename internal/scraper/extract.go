package scraper

import (
	"regexp"
	"strings"
)

// Ordered identifier rules per provider. The first capturing match wins.
var (
	tikiIDRules = []*regexp.Regexp{
		// URL format: https://tiki.vn/...-p12345678.html
		regexp.MustCompile(`-p(\d+)\.html`),
		// Or the spid query parameter: spid=12345678
		regexp.MustCompile(`spid=(\d+)`),
	}

	lazadaIDRules = []*regexp.Regexp{
		// URL format: https://www.lazada.vn/products/...-i12345-s67890.html
		regexp.MustCompile(`-i(\d+)-s\d+\.html`),
	}

	idRulesBySource = map[string][]*regexp.Regexp{
		"tiki":   tikiIDRules,
		"lazada": lazadaIDRules,
	}
)

// ExtractID derives the source-specific item identifier from a product URL.
// A miss is a normal, skippable outcome, not an error. Unknown sources fall
// back to the tiki rules.
func ExtractID(source, url string) (string, bool) {
	rules, ok := idRulesBySource[strings.ToLower(source)]
	if !ok {
		rules = tikiIDRules
	}

	for _, rule := range rules {
		if m := rule.FindStringSubmatch(url); m != nil {
			return m[1], true
		}
	}
	return "", false
}

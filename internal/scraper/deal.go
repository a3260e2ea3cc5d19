package scraper

import "strings"

// hotDealDiscountRatio is the discount at or above which a NORMAL result is
// upgraded to HOT_DEAL.
const hotDealDiscountRatio = 0.30

// badgeRules are checked in priority order; the first rule any badge
// satisfies decides the deal type.
var badgeRules = []struct {
	needles []string
	deal    DealType
}{
	{[]string{"FLASH"}, DealFlashSale},
	{[]string{"HOT", "DEAL"}, DealHotDeal},
	{[]string{"TREND"}, DealTrending},
}

// ClassifyDeal maps raw badge codes and the price delta to a deal type.
// The discount upgrade only applies when no badge rule fired; it never
// downgrades a badge-derived classification.
func ClassifyDeal(badges []string, price, originalPrice float64) DealType {
	for _, rule := range badgeRules {
		for _, badge := range badges {
			code := strings.ToUpper(badge)
			for _, needle := range rule.needles {
				if strings.Contains(code, needle) {
					return rule.deal
				}
			}
		}
	}

	if price > 0 && originalPrice > price {
		discount := (originalPrice - price) / originalPrice
		if discount >= hotDealDiscountRatio {
			return DealHotDeal
		}
	}

	return DealNormal
}

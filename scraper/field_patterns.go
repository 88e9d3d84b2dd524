package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"prodlens/models"
)

// Rule maps a raw-text pattern to a single record field. Extract returns the
// field value found in the raw OCR text, or "" when nothing matched. Rules
// never error: a miss is a normal, silent outcome.
type Rule struct {
	Section string
	Field   string
	Extract func(r models.Record, rawText string) string
}

// Patterns for the deterministic field rules. Within one field the primary
// pattern wins; the fallback is only consulted when the primary found nothing.
var (
	mrpPattern          = regexp.MustCompile(`(?i)M\.R\.P\.?:\s*([₹$€£][\d,.]+?)(?:\s*M\.R\.P\.?:|\n?\z)`)
	unitPricePattern    = regexp.MustCompile(`(?i)([\d₹$€£,.]+)\s*per\s*(kg|g|L|ml)`)
	priceWithPattern    = regexp.MustCompile(`([₹$€£][\d,.]+)\s+with`)
	anyPricePattern     = regexp.MustCompile(`([₹$€£][\d,.]+)`)
	discountPattern     = regexp.MustCompile(`(-\d+%)`)
	freeDeliveryPattern = regexp.MustCompile(`(?i)(FREE scheduled delivery[^\n]+)`)
	soonDeliveryPattern = regexp.MustCompile(`(?i)(scheduled delivery as soon as[^\n]+)`)
	shippingPattern     = regexp.MustCompile(`(?i)(Delivering to\s+[^\n]+)`)
	sellerPattern       = regexp.MustCompile(`(?i)Sold by\s*([^\n\r]+)`)
	weightPattern       = regexp.MustCompile(`(?i)Weight[:\-]?\s*([\d,.]+\s*(?:kg|g))`)
	ingredientsPattern  = regexp.MustCompile(`(?i)Ingredients[:\-]?\s*([\p{L}\p{N}_\s,]+)`)
	reviewStarsPattern  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?\s*out of\s*\d+\s*stars)`)

	digitsPattern         = regexp.MustCompile(`\d+`)
	currencySymbolPattern = regexp.MustCompile(`^[₹$€£]`)
)

// FillRules returns the ordered fill-if-absent rules. Each only runs when its
// target field is currently empty; it must never clobber an existing value.
func FillRules() []Rule {
	return []Rule{
		{models.SectionPricing, models.FieldMRP, extractMRP},
		{models.SectionPricing, models.FieldUnitPrice, extractUnitPrice},
		{models.SectionPricing, models.FieldCurrentPrice, extractCurrentPrice},
		{models.SectionPricing, models.FieldDiscount, firstMatch(discountPattern)},
		{models.SectionDelivery, models.FieldEstimatedDeliveryTime, extractDeliveryTime},
		{models.SectionDelivery, models.FieldShippingDetails, firstMatch(shippingPattern)},
		{models.SectionSeller, models.FieldSellerName, firstMatch(sellerPattern)},
		{models.SectionSpecifications, models.FieldWeight, firstMatch(weightPattern)},
		{models.SectionSpecifications, models.FieldIngredients, firstMatch(ingredientsPattern)},
		{models.SectionReviews, models.FieldSummary, firstMatch(reviewStarsPattern)},
	}
}

// OverrideRules returns the rules allowed to overwrite a populated field.
// Availability is the single deliberate exception to fill-if-absent: any
// "in stock" mention in the raw text wins over whatever the model reported.
func OverrideRules() []Rule {
	return []Rule{
		{models.SectionDelivery, models.FieldAvailability, extractAvailability},
	}
}

// firstMatch builds an extractor returning submatch 1 of the first match.
func firstMatch(pattern *regexp.Regexp) func(models.Record, string) string {
	return func(_ models.Record, rawText string) string {
		if m := pattern.FindStringSubmatch(rawText); m != nil {
			return strings.TrimSpace(m[1])
		}
		return ""
	}
}

// extractMRP looks for an explicit M.R.P. label first. The amount must run up
// to another M.R.P. label or the end of the text; a label buried mid-text does
// not count as the list price. Failing that it derives
// the list price from current_price and discount when both are already on the
// record and the discount parses to a percentage strictly between 0 and 100.
// Any parse failure leaves MRP absent.
func extractMRP(r models.Record, rawText string) string {
	if m := mrpPattern.FindStringSubmatch(rawText); m != nil {
		return strings.TrimSpace(m[1])
	}

	priceStr := r.Field(models.SectionPricing, models.FieldCurrentPrice)
	discountStr := r.Field(models.SectionPricing, models.FieldDiscount)
	if priceStr == "" || discountStr == "" {
		return ""
	}

	digits := digitsPattern.FindString(discountStr)
	if digits == "" {
		return ""
	}
	discountPct, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return ""
	}
	fraction := discountPct / 100.0
	if fraction <= 0 || fraction >= 1.0 {
		return ""
	}

	price, err := parseMoney(priceStr)
	if err != nil {
		return ""
	}

	symbol := currencySymbolPattern.FindString(priceStr)
	if symbol == "" {
		symbol = "₹"
	}
	return symbol + formatAmount(price/(1-fraction))
}

func extractUnitPrice(_ models.Record, rawText string) string {
	if m := unitPricePattern.FindStringSubmatch(rawText); m != nil {
		return strings.TrimSpace(m[1]) + " per " + strings.TrimSpace(m[2])
	}
	return ""
}

// extractCurrentPrice prefers an amount immediately followed by "with" (the
// typical "₹450 with 10% off" phrasing) and falls back to the first currency
// amount anywhere in the text.
func extractCurrentPrice(_ models.Record, rawText string) string {
	if m := priceWithPattern.FindStringSubmatch(rawText); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := anyPricePattern.FindStringSubmatch(rawText); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func extractDeliveryTime(_ models.Record, rawText string) string {
	if m := freeDeliveryPattern.FindStringSubmatch(rawText); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := soonDeliveryPattern.FindStringSubmatch(rawText); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func extractAvailability(_ models.Record, rawText string) string {
	if strings.Contains(strings.ToLower(rawText), "in stock") {
		return "In Stock"
	}
	return ""
}

// parseMoney strips the currency symbol and thousands separators from a
// monetary string and parses the remainder as a decimal number.
func parseMoney(value string) (float64, error) {
	cleaned := currencySymbolPattern.ReplaceAllString(strings.TrimSpace(value), "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	return strconv.ParseFloat(cleaned, 64)
}

// formatAmount renders a value with two decimals and comma thousands
// separators, e.g. 12345.5 -> "12,345.50".
func formatAmount(value float64) string {
	s := strconv.FormatFloat(value, 'f', 2, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")

	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign = "-"
		intPart = intPart[1:]
	}

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	return sign + b.String() + "." + fracPart
}

package usecase

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// Matches a trailing amount like "$49.99", "49,99 EUR", "USD 120", "£35"
	trailingPricePattern = regexp.MustCompile(`(?i)\s*(?:usd|eur|gbp)?\s*[$€£]?\s*(\d{1,6}(?:[.,]\d{1,2})?)\s*(?:usd|eur|gbp)?\s*$`)

	// Matches receipt noise like leading quantities "2 x", "1x", SKU codes "#12345"
	quantityPrefixPattern = regexp.MustCompile(`(?i)^\s*\d+\s*x\s+`)
	skuPattern            = regexp.MustCompile(`#\s*\d+`)

	multipleSpacesRegex = regexp.MustCompile(`\s+`)
)

// ParseReceiptLine splits one receipt line into its garment text and an
// optional trailing price. A line consisting only of a number keeps the
// number as text.
func ParseReceiptLine(line string) (string, *float64) {
	text := strings.TrimSpace(line)
	if text == "" {
		return "", nil
	}

	text = quantityPrefixPattern.ReplaceAllString(text, "")
	text = skuPattern.ReplaceAllString(text, " ")

	var price *float64
	if loc := trailingPricePattern.FindStringSubmatchIndex(text); loc != nil && loc[0] > 0 {
		amount := strings.ReplaceAll(text[loc[2]:loc[3]], ",", ".")
		if v, err := strconv.ParseFloat(amount, 64); err == nil {
			price = &v
			text = text[:loc[0]]
		}
	}

	text = strings.Trim(text, " \t-–:|,")
	text = multipleSpacesRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text), price
}

package receipt

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// lines like "TOTAL  Rs 1,250.00", "AMOUNT: 840", "SALE $ 42.50"
	totalLineRE = regexp.MustCompile(`(?i)\b(?:grand\s*total|total|amount|sale)\b[^0-9]{0,12}((?:[0-9]{1,3}(?:[.,][0-9]{3})+|[0-9]+)(?:[.,][0-9]{2})?)`)
	// any grouped or plain number, used as a fallback candidate pool
	numberRE = regexp.MustCompile(`[0-9]{1,3}(?:[.,][0-9]{3})+(?:[.,][0-9]{2})?|[0-9]{3,9}`)
	// "37.45 L", "12,5 LTR", "9.870 LITRES"
	litresRE = regexp.MustCompile(`(?i)([0-9]+[.,][0-9]{1,3})\s*(?:l|ltr|litres?|liters?)\b`)
	centsRE  = regexp.MustCompile(`[.,][0-9]{2}$`)
)

// ParseTotal scans OCR text for the purchase total. Keyword-marked lines win;
// otherwise the largest plausible number on the receipt is taken. Returns
// (0, "") when nothing qualifies.
func ParseTotal(text string) (int64, string) {
	if m := totalLineRE.FindStringSubmatch(text); len(m) >= 2 {
		if amt, err := ParseAmount(m[1]); err == nil && amt > 0 {
			return amt, m[1]
		}
	}
	var best int64
	var bestRaw string
	for _, cand := range numberRE.FindAllString(text, -1) {
		amt, err := ParseAmount(cand)
		if err != nil || amt <= 0 {
			continue
		}
		if amt > best {
			best = amt
			bestRaw = cand
		}
	}
	return best, bestRaw
}

// ParseLitres extracts the dispensed volume when the pump printed one.
func ParseLitres(text string) float64 {
	m := litresRE.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseAmount normalizes a matched substring into whole currency units. A
// trailing two-digit decimal part is treated as cents and dropped
// (e.g. "1.250,00" -> 1250).
func ParseAmount(found string) (int64, error) {
	found = strings.TrimSpace(found)
	if centsRE.MatchString(found) {
		found = found[:len(found)-3]
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, found)
	return strconv.ParseInt(digits, 10, 64)
}

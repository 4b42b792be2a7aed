package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"fitness-analyzer/models"
	"fitness-analyzer/utils"
)

var (
	// priceCharsRegexp matches everything that cannot be part of a price.
	priceCharsRegexp = regexp.MustCompile(`[^\d,. ]`)
	// leadingFloatRegexp captures the numeric prefix of a cleaned value.
	leadingFloatRegexp = regexp.MustCompile(`^(?:\d+(?:\.\d*)?|\.\d+)`)
	// leadingIntRegexp captures the integer prefix of a cleaned mileage.
	leadingIntRegexp = regexp.MustCompile(`^\d+`)
	// mileageCharsRegexp matches everything except digits and the decimal point.
	mileageCharsRegexp = regexp.MustCompile(`[^\d.]`)
)

// Cleaner normalises raw listings and parses their price and mileage text.
type Cleaner struct {
	logger *utils.Logger
	dedupe bool
}

// NewCleaner creates a Cleaner. With dedupe set, later listings sharing a link
// with an earlier one are dropped.
func NewCleaner(logger *utils.Logger, dedupe bool) *Cleaner {
	return &Cleaner{logger: logger, dedupe: dedupe}
}

// Clean processes listings in place order and returns the kept records.
func (c *Cleaner) Clean(raw []*models.Listing) []*models.Listing {
	seen := utils.NewStringSet()
	result := make([]*models.Listing, 0, len(raw))

	for _, l := range raw {
		if l == nil {
			continue
		}

		link := strings.TrimSpace(l.Link)
		if link != "" {
			if c.dedupe && seen.Contains(link) {
				c.logger.Debug("[cleaner] Duplicate link skipped: %s", link)
				continue
			}
			seen.Add(link)
		}

		l.Link = link
		l.Title = normaliseText(l.Title)
		l.Location = normaliseText(l.Location)

		if v, ok := parsePrice(l.Price); ok {
			l.PriceValue = v
		}
		if v, ok := parseMileage(l.Mileage); ok {
			l.MileageValue = v
		}

		result = append(result, l)
	}

	c.logger.Info("[cleaner] Cleaned %d → %d listings (dropped %d, %d unique links)",
		len(raw), len(result), len(raw)-len(result), seen.Size())
	return result
}

// parsePrice extracts a numeric price from marketplace text.
// Examples:
//
//	"2 899 zł"  → 2899
//	"100, 000"  → 100000
//	"100,000"   → 100000
//	"100,50"    → 100.5
//	"1,234.56"  → 1234.56
func parsePrice(raw string) (float64, bool) {
	if strings.TrimSpace(raw) == "" {
		return 0, false
	}

	cleaned := strings.TrimSpace(priceCharsRegexp.ReplaceAllString(raw, ""))
	if cleaned == "" {
		return 0, false
	}

	switch {
	case strings.Contains(cleaned, ", "):
		cleaned = strings.ReplaceAll(cleaned, ", ", "")
	case strings.Contains(cleaned, ",") && !strings.Contains(cleaned, "."):
		parts := strings.Split(cleaned, ",")
		if len(parts) == 2 && len(parts[1]) == 3 {
			cleaned = strings.Replace(cleaned, ",", "", 1)
		} else if len(parts) == 2 && len(parts[1]) <= 2 {
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		}
	case strings.Contains(cleaned, ",") && strings.Contains(cleaned, "."):
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	cleaned = strings.ReplaceAll(cleaned, " ", "")

	match := leadingFloatRegexp.FindString(cleaned)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseMileage extracts kilometres from text such as " 290 000 km", "150k" or "120tys".
func parseMileage(raw string) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, false
	}
	s = strings.Join(strings.Fields(s), "")

	for _, suffix := range []string{"k", "tys"} {
		if strings.HasSuffix(s, suffix) {
			match := leadingFloatRegexp.FindString(strings.Replace(s, suffix, "", 1))
			if match == "" {
				return 0, false
			}
			v, err := strconv.ParseFloat(match, 64)
			if err != nil {
				return 0, false
			}
			return math.Round(v * 1000), true
		}
	}

	s = strings.Replace(s, "km", "", 1)
	s = mileageCharsRegexp.ReplaceAllString(s, "")

	match := leadingIntRegexp.FindString(s)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

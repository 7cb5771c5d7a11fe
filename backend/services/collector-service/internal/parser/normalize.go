package parser

import (
	"regexp"
	"strconv"
	"strings"

	"multisib/backend/services/collector-service/internal/models"
)

// unitMarkers matches what the page appends to numbers: unit letters, degrees
// and percent.
var unitMarkers = regexp.MustCompile(`[A-Za-z°%]`)

// NormalizeValue strips unit markers, converts a decimal comma to a dot and
// parses the result. When parsing fails the cleaned text is kept as is.
func NormalizeValue(raw string) models.Value {
	cleaned := strings.TrimSpace(raw)
	cleaned = unitMarkers.ReplaceAllString(cleaned, "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	// "12.5 V" leaves a trailing blank once the unit is gone.
	if f, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64); err == nil {
		return models.Number(f)
	}
	return models.Text(cleaned)
}

package seedcat

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParsedAsset is one seed catalog row after parsing.
type ParsedAsset struct {
	Key       string
	Label     string
	SeedRange string
	MinValue  float64
	MaxValue  float64
	Midpoint  float64
	TierIndex int
}

// ParseError records one rejected seed line. Parsing never aborts on a bad
// line; callers decide whether the accumulated error count is acceptable.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("seed line %d (%q): %s", e.Line, e.Text, e.Reason)
}

// ParseResult is the full output of one parser run: assets sorted by key plus
// every per-line error encountered.
type ParseResult struct {
	Assets []ParsedAsset
	Errors []ParseError
}

var unitMultipliers = map[string]float64{
	"":   1,
	"x":  1,
	"k":  1_000,
	"kx": 1_000,
	"m":  1_000_000,
	"mx": 1_000_000,
}

// ParseSeed parses the raw seed catalog text. One row per asset as
// "assetKey,rangeToken"; '#' comments and a header row are skipped.
func ParseSeed(raw string) ParseResult {
	var result ParseResult
	seen := make(map[string]bool)

	for i, line := range strings.Split(raw, "\n") {
		lineNo := i + 1
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) != 2 {
			result.Errors = append(result.Errors, ParseError{lineNo, line, "expected exactly two comma-separated fields"})
			continue
		}
		key := strings.TrimSpace(fields[0])
		token := strings.TrimSpace(fields[1])

		if isHeaderField(key) {
			continue
		}
		if key == "" {
			result.Errors = append(result.Errors, ParseError{lineNo, line, "empty asset key"})
			continue
		}
		if strings.ContainsAny(key, " \t") {
			result.Errors = append(result.Errors, ParseError{lineNo, line, "asset key contains whitespace"})
			continue
		}
		if seen[key] {
			result.Errors = append(result.Errors, ParseError{lineNo, line, "duplicate asset key"})
			continue
		}

		minV, maxV, err := parseRangeToken(token)
		if err != nil {
			result.Errors = append(result.Errors, ParseError{lineNo, line, err.Error()})
			continue
		}

		seen[key] = true
		mid := (minV + maxV) / 2
		result.Assets = append(result.Assets, ParsedAsset{
			Key:       key,
			Label:     deriveLabel(key),
			SeedRange: token,
			MinValue:  minV,
			MaxValue:  maxV,
			Midpoint:  mid,
			TierIndex: TierIndexFor(mid),
		})
	}

	sort.Slice(result.Assets, func(i, j int) bool {
		return result.Assets[i].Key < result.Assets[j].Key
	})
	return result
}

func isHeaderField(field string) bool {
	switch strings.ToLower(field) {
	case "key", "asset_key", "assetkey":
		return true
	}
	return false
}

// parseRangeToken parses "<amount><unit>" or "<amount><unit>-<amount><unit>".
// A single bound means min=max. When exactly one side omits its unit it
// inherits the other side's multiplier; when both omit it the multiplier is 1.
func parseRangeToken(token string) (float64, float64, error) {
	if token == "" {
		return 0, 0, fmt.Errorf("empty range token")
	}

	parts := strings.Split(token, "-")
	if len(parts) > 2 {
		return 0, 0, fmt.Errorf("range token has more than two bounds")
	}

	loAmount, loUnit, err := parseBound(parts[0])
	if err != nil {
		return 0, 0, err
	}
	if len(parts) == 1 {
		v := loAmount * multiplierFor(loUnit)
		return v, v, nil
	}

	hiAmount, hiUnit, err := parseBound(parts[1])
	if err != nil {
		return 0, 0, err
	}

	// Unit inheritance across the range.
	if loUnit == "" && hiUnit != "" {
		loUnit = hiUnit
	} else if hiUnit == "" && loUnit != "" {
		hiUnit = loUnit
	}

	minV := loAmount * multiplierFor(loUnit)
	maxV := hiAmount * multiplierFor(hiUnit)
	if minV > maxV {
		return 0, 0, fmt.Errorf("range lower bound exceeds upper bound")
	}
	return minV, maxV, nil
}

// parseBound splits one bound into its numeric amount and unit suffix.
func parseBound(bound string) (float64, string, error) {
	bound = strings.TrimSpace(strings.ToLower(bound))
	if bound == "" {
		return 0, "", fmt.Errorf("empty bound")
	}

	cut := len(bound)
	for cut > 0 {
		c := bound[cut-1]
		if c >= '0' && c <= '9' || c == '.' {
			break
		}
		cut--
	}
	amountStr, unit := bound[:cut], bound[cut:]
	if _, ok := unitMultipliers[unit]; !ok {
		return 0, "", fmt.Errorf("unknown unit suffix %q", unit)
	}
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid amount %q", amountStr)
	}
	if amount <= 0 {
		return 0, "", fmt.Errorf("amount must be positive")
	}
	return amount, unit, nil
}

func multiplierFor(unit string) float64 {
	if m, ok := unitMultipliers[unit]; ok {
		return m
	}
	return 1
}

var variantSuffixes = map[string]string{
	"m": "(M)",
	"f": "(F)",
	"u": "(U)",
	"s": "(S)",
}

// deriveLabel turns a seed key like "dark_charizard_f" into "Dark Charizard (F)".
func deriveLabel(key string) string {
	parts := strings.Split(key, "_")
	suffix := ""
	if len(parts) > 1 {
		if s, ok := variantSuffixes[strings.ToLower(parts[len(parts)-1])]; ok {
			suffix = s
			parts = parts[:len(parts)-1]
		}
	}
	for i, p := range parts {
		parts[i] = titleWord(p)
	}
	label := strings.Join(parts, " ")
	if suffix != "" {
		label += " " + suffix
	}
	return label
}

func titleWord(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
}

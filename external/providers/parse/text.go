package parse

import (
	"math"
	"regexp"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"

	"github.com/KingBodhi/jungleverse/internal/domain/provider"
)

// ErrParse marks values that could not be read from upstream text.
var ErrParse = crerr.New("parse error")

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	stakesPattern     = regexp.MustCompile(`\$(\d+(?:\.\d+)?)/\$(\d+(?:\.\d+)?)`)
	dollarPattern     = regexp.MustCompile(`\$(\d+(?:,\d+)*)`)

	maxAmount = decimal.NewFromInt(math.MaxInt64)
)

// SanitizeText collapses runs of whitespace and trims the result.
func SanitizeText(value string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(value, " "))
}

// Currency keeps only digits and dots and rounds to whole units:
// "$1,250" -> 1250, "1.88" -> 2. ok is false when nothing numeric remains.
func Currency(raw string) (int64, bool) {
	var b strings.Builder
	dotSeen := false
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.':
			if dotSeen {
				// a second dot ends the number, "1.2.3" reads as 1.2
				return roundDecimal(b.String())
			}
			dotSeen = true
			b.WriteRune(r)
		}
	}
	return roundDecimal(b.String())
}

func roundDecimal(cleaned string) (int64, bool) {
	cleaned = strings.TrimSuffix(cleaned, ".")
	if cleaned == "" {
		return 0, false
	}
	if strings.HasPrefix(cleaned, ".") {
		cleaned = "0" + cleaned
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, false
	}
	d = d.Round(0)
	if d.GreaterThan(maxAmount) {
		return 0, false
	}
	return d.IntPart(), true
}

// CurrencyPtr is Currency for optional fields.
func CurrencyPtr(raw string) *int64 {
	v, ok := Currency(raw)
	if !ok {
		return nil
	}
	return &v
}

// Variant guesses the game variant from free text such as a tournament name.
func Variant(text string) provider.Variant {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "plo5"):
		return provider.VariantPLO5
	case strings.Contains(lower, "plo"), strings.Contains(lower, "omaha"):
		return provider.VariantPLO
	case strings.Contains(lower, "short deck"), strings.Contains(lower, "mix"):
		return provider.VariantMixed
	case strings.Contains(lower, "stud"):
		return provider.VariantOther
	default:
		return provider.VariantNLHE
	}
}

// Stakes reads "$1/$2" style blinds, ignoring spaces, rounded to whole units.
func Stakes(label string) (smallBlind, bigBlind int64, err error) {
	compact := strings.ReplaceAll(label, " ", "")
	match := stakesPattern.FindStringSubmatch(compact)
	if match == nil {
		return 0, 0, crerr.Wrapf(ErrParse, "stakes %q", label)
	}
	sb, _ := roundDecimal(match[1])
	bb, _ := roundDecimal(match[2])
	if sb <= 0 || bb <= 0 {
		return 0, 0, crerr.Wrapf(ErrParse, "stakes %q", label)
	}
	return sb, bb, nil
}

// BuyinRange reads dollar amounts from free text. One amount means a fixed
// buy-in; otherwise the first two amounts are min and max.
func BuyinRange(text string) (minBuyin, maxBuyin int64, ok bool) {
	matches := dollarPattern.FindAllStringSubmatch(text, -1)
	amounts := make([]int64, 0, 2)
	for _, m := range matches {
		v, parsed := Currency(m[1])
		if !parsed {
			continue
		}
		amounts = append(amounts, v)
		if len(amounts) == 2 {
			break
		}
	}

	switch len(amounts) {
	case 0:
		return 0, 0, false
	case 1:
		return amounts[0], amounts[0], true
	default:
		return amounts[0], amounts[1], true
	}
}

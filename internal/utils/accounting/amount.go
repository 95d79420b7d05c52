package accounting

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits amounts are rounded to.
const MoneyScale = 2

// CoerceAmount converts a loosely typed amount into a non-negative decimal.
// Numbers, numeric strings and decimals are accepted. Missing, unparsable
// and negative values become zero.
func CoerceAmount(v any) decimal.Decimal {
	var d decimal.Decimal
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		d = x
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero
		}
		d = *x
	case json.Number:
		return CoerceAmount(string(x))
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return decimal.Zero
		}
		parsed, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero
		}
		d = parsed
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero
		}
		d = decimal.NewFromFloat(x)
	case float32:
		return CoerceAmount(float64(x))
	case int:
		d = decimal.NewFromInt(int64(x))
	case int64:
		d = decimal.NewFromInt(x)
	case int32:
		d = decimal.NewFromInt(int64(x))
	default:
		return decimal.Zero
	}
	if d.IsNegative() {
		return decimal.Zero
	}
	return d.Round(MoneyScale)
}

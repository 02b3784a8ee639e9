package transaction

import (
	"github.com/shopspring/decimal"
)

// PriceBucket is an inclusive price interval. A nil Max means unbounded.
type PriceBucket struct {
	Label string
	Min   decimal.Decimal
	Max   *decimal.Decimal
}

// Contains reports whether price lies within [Min, Max].
func (b PriceBucket) Contains(price decimal.Decimal) bool {
	if price.LessThan(b.Min) {
		return false
	}

	return b.Max == nil || price.LessThanOrEqual(*b.Max)
}

func bucket(label string, lo, hi int64) PriceBucket {
	return PriceBucket{Label: label, Min: decimal.NewFromInt(lo), Max: new(decimal.NewFromInt(hi))}
}

// PriceBuckets are the histogram buckets, in display order.
var PriceBuckets = []PriceBucket{
	bucket("0-100", 0, 100),
	bucket("101-200", 101, 200),
	bucket("201-300", 201, 300),
	bucket("301-400", 301, 400),
	bucket("401-500", 401, 500),
	bucket("501-600", 501, 600),
	bucket("601-700", 601, 700),
	bucket("701-800", 701, 800),
	bucket("801-900", 801, 900),
	{Label: "901-above", Min: decimal.NewFromInt(901)},
}

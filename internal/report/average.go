package report

import "github.com/shopspring/decimal"

// Average returns the mean of the present values. Nil entries are ungraded and
// count in neither the sum nor the divisor. No present values yields 0.
func Average(values []*float64) float64 {
	sum := 0.0
	count := 0
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// Round2 rounds half up to two decimal places, working on the shortest
// decimal form of v so that 4.725 rounds to 4.73. Values are never negative.
func Round2(v float64) float64 {
	r, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return r
}

func roundedPtr(v float64) *float64 {
	r := Round2(v)
	return &r
}

package models

// Paid-up capital tiers. Bands are half-open: a boundary amount belongs to
// the upper band (1000 is "$1K - $5K", not "Under $1K").
const (
	CapitalRangeNotDisclosed = "Not Disclosed"
	CapitalRangeUnder1K      = "Under $1K"
	CapitalRange1KTo5K       = "$1K - $5K"
	CapitalRange5KTo10K      = "$5K - $10K"
	CapitalRange10KTo50K     = "$10K - $50K"
	CapitalRange50KTo100K    = "$50K - $100K"
	CapitalRange100KTo500K   = "$100K - $500K"
	CapitalRange500KTo1M     = "$500K - $1M"
	CapitalRange1MTo5M       = "$1M - $5M"
	CapitalRange5MTo10M      = "$5M - $10M"
	CapitalRangeOver10M      = "Over $10M"
)

// CapitalRanges lists every tier in ascending band order, the undisclosed
// tier first.
var CapitalRanges = []string{
	CapitalRangeNotDisclosed,
	CapitalRangeUnder1K,
	CapitalRange1KTo5K,
	CapitalRange5KTo10K,
	CapitalRange10KTo50K,
	CapitalRange50KTo100K,
	CapitalRange100KTo500K,
	CapitalRange500KTo1M,
	CapitalRange1MTo5M,
	CapitalRange5MTo10M,
	CapitalRangeOver10M,
}

type capitalBand struct {
	upperBound float64
	rangeName  string
}

var capitalBands = []capitalBand{
	{1_000, CapitalRangeUnder1K},
	{5_000, CapitalRange1KTo5K},
	{10_000, CapitalRange5KTo10K},
	{50_000, CapitalRange10KTo50K},
	{100_000, CapitalRange50KTo100K},
	{500_000, CapitalRange100KTo500K},
	{1_000_000, CapitalRange500KTo1M},
	{5_000_000, CapitalRange1MTo5M},
	{10_000_000, CapitalRange5MTo10M},
}

// IsValidCapitalRange reports whether r is one of the closed tier set.
func IsValidCapitalRange(r string) bool {
	for _, cr := range CapitalRanges {
		if cr == r {
			return true
		}
	}
	return false
}

// CapitalRangeFor maps a paid-up capital amount to its tier. Amounts of
// zero or below are undisclosed, which is distinct from the lowest
// monetary band.
func CapitalRangeFor(amount float64) string {
	if amount <= 0 {
		return CapitalRangeNotDisclosed
	}
	for _, band := range capitalBands {
		if amount < band.upperBound {
			return band.rangeName
		}
	}
	return CapitalRangeOver10M
}

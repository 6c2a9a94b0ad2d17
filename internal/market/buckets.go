package market

// Price-range bucket labels, ordered. Boundaries are inclusive upper bounds:
// a price of exactly 5000 lands in BucketUnder5k, 5001 in BucketUnder10k.
const (
	BucketUnder5k  = "under5k"
	BucketUnder10k = "under10k"
	BucketUnder15k = "under15k"
	BucketUnder20k = "under20k"
	BucketUnder30k = "under30k"
	BucketUnder50k = "under50k"
	BucketOver50k  = "over50k"
)

// BucketLabels lists every bucket in ascending price order, for stable
// presentation of histograms.
var BucketLabels = []string{
	BucketUnder5k, BucketUnder10k, BucketUnder15k,
	BucketUnder20k, BucketUnder30k, BucketUnder50k, BucketOver50k,
}

// PriceBucket maps a price onto its range bucket.
func PriceBucket(price float64) string {
	switch {
	case price <= 5000:
		return BucketUnder5k
	case price <= 10000:
		return BucketUnder10k
	case price <= 15000:
		return BucketUnder15k
	case price <= 20000:
		return BucketUnder20k
	case price <= 30000:
		return BucketUnder30k
	case price <= 50000:
		return BucketUnder50k
	default:
		return BucketOver50k
	}
}

// FuelUnknown is the histogram bucket for listings without a fuel type.
const FuelUnknown = "Unknown"

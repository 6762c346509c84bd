package normalizer

import "job-insight/internal/domain/offer"

// Merge concatenates board offers followed by France Travail offers.
func Merge(wttj, ft []offer.JobOffer) []offer.JobOffer {
	out := make([]offer.JobOffer, 0, len(wttj)+len(ft))
	out = append(out, wttj...)
	out = append(out, ft...)
	return out
}

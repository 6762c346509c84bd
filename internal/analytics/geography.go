package analytics

import (
	"sort"
	"strings"

	"job-insight/internal/domain/offer"
)

const DefaultTopLocations = 20

type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// JobsByLocation counts offers per location label, most frequent first.
// Offers without a location are not counted.
func JobsByLocation(jobs []offer.JobOffer, topN int) []LocationCount {
	if topN <= 0 {
		topN = DefaultTopLocations
	}
	counts := map[string]int{}
	for _, j := range jobs {
		loc := strings.TrimSpace(j.Location)
		if loc == "" {
			continue
		}
		counts[loc]++
	}

	out := make([]LocationCount, 0, len(counts))
	for loc, c := range counts {
		out = append(out, LocationCount{Location: loc, Count: c})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].Location < out[b].Location
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

// GeoPoint is an offer that carries reliable coordinates, ready for a map.
type GeoPoint struct {
	OfferID   string  `json:"offer_id"`
	Title     string  `json:"title"`
	Company   string  `json:"company"`
	Location  string  `json:"location"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func GeoPoints(jobs []offer.JobOffer) []GeoPoint {
	out := make([]GeoPoint, 0)
	for _, j := range jobs {
		if j.Latitude == nil || j.Longitude == nil {
			continue
		}
		out = append(out, GeoPoint{
			OfferID:   j.ID,
			Title:     j.Title,
			Company:   j.Company,
			Location:  j.Location,
			Latitude:  *j.Latitude,
			Longitude: *j.Longitude,
		})
	}
	return out
}

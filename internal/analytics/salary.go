package analytics

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"job-insight/internal/domain/offer"
	"job-insight/internal/pkg/textnorm"
)

// Monthly hours of a full-time French contract.
const monthlyHours = 151.67

var (
	salaryNumber  = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	salaryPeriods = regexp.MustCompile(`sur\s+\d+(?:[.,]\d+)?\s*mois`)
)

var salaryKeywords = []string{
	"€", "eur", "euro",
	"k€", "k eur",
	"rémunération", "salaire",
	"package", "brut", "net",
}

type SalaryUnit string

const (
	UnitHourly  SalaryUnit = "hourly"
	UnitMonthly SalaryUnit = "monthly"
	UnitAnnual  SalaryUnit = "annual"
)

// DetectUnit guesses the pay period of a normalized salary label.
func DetectUnit(text string) SalaryUnit {
	switch {
	case strings.Contains(text, "horaire") || strings.Contains(text, "/h"):
		return UnitHourly
	case strings.Contains(text, "annuel"):
		return UnitAnnual
	case strings.Contains(text, "mensuel") || strings.Contains(text, "mois"):
		return UnitMonthly
	}
	return UnitAnnual
}

func ToAnnual(amount float64, unit SalaryUnit) float64 {
	switch unit {
	case UnitMonthly:
		return amount * 12
	case UnitHourly:
		return amount * monthlyHours * 12
	}
	return amount
}

// ParseSalaryFT extracts an annual gross range from a France Travail label
// such as "Mensuel de 2000.00 Euros à 2500.00 Euros sur 12 mois". The
// "sur N mois" suffix is not an amount. ok is false when no amount is found.
func ParseSalaryFT(label string) (lo, hi float64, ok bool) {
	text := textnorm.Text(label)
	unit := DetectUnit(text)
	text = salaryPeriods.ReplaceAllString(text, "")

	var nums []float64
	for _, m := range salaryNumber.FindAllString(text, -1) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
		if err != nil {
			continue
		}
		nums = append(nums, v)
	}
	if len(nums) == 0 {
		return 0, 0, false
	}

	lo, hi = nums[0], nums[0]
	for _, v := range nums[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return ToAnnual(lo, unit), ToAnnual(hi, unit), true
}

// HasSalaryWTTJ reports whether a board salary field mentions pay at all.
func HasSalaryWTTJ(text string) bool {
	text = textnorm.Text(text)
	if text == "" {
		return false
	}
	for _, k := range salaryKeywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

type SalaryKPIs struct {
	TotalOffers   int     `json:"total_offres"`
	WithSalary    int     `json:"offres_avec_salaire"`
	PctWithSalary float64 `json:"pct_avec_salaire"`
}

type SalaryDistribution struct {
	Min    float64 `json:"min"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

type OfferSalary struct {
	OfferID   string   `json:"offer_id"`
	Text      string   `json:"salary_text"`
	Min       *float64 `json:"salary_min,omitempty"`
	Max       *float64 `json:"salary_max,omitempty"`
	HasSalary bool     `json:"has_salary"`
}

type SalaryReport struct {
	Source       offer.Source        `json:"source"`
	KPIs         SalaryKPIs          `json:"kpis"`
	Distribution *SalaryDistribution `json:"distribution"`
	Offers       []OfferSalary       `json:"offers"`
}

// AnalyzeSalary parses France Travail amounts into annual figures, or only
// detects salary mentions for the board, whose labels are free text.
func AnalyzeSalary(jobs []offer.JobOffer, source offer.Source) (SalaryReport, error) {
	if !source.Valid() {
		return SalaryReport{}, ErrUnknownSource
	}
	jobs = filterSource(jobs, source)

	rep := SalaryReport{Source: source, Offers: make([]OfferSalary, 0, len(jobs))}
	var values []float64
	for _, j := range jobs {
		entry := OfferSalary{OfferID: j.ID, Text: textnorm.Text(j.Salary)}
		if source == offer.SourceFranceTravail {
			if lo, hi, ok := ParseSalaryFT(j.Salary); ok {
				entry.Min, entry.Max, entry.HasSalary = &lo, &hi, true
				values = append(values, lo, hi)
			}
		} else {
			entry.HasSalary = HasSalaryWTTJ(j.Salary)
		}
		if entry.HasSalary {
			rep.KPIs.WithSalary++
		}
		rep.Offers = append(rep.Offers, entry)
	}

	rep.KPIs.TotalOffers = len(jobs)
	if len(jobs) > 0 {
		rep.KPIs.PctWithSalary = round(100*float64(rep.KPIs.WithSalary)/float64(len(jobs)), 1)
	}
	if len(values) > 0 {
		rep.Distribution = distribution(values)
	}
	return rep, nil
}

func distribution(values []float64) *SalaryDistribution {
	sort.Float64s(values)
	n := len(values)
	median := values[n/2]
	if n%2 == 0 {
		median = (values[n/2-1] + values[n/2]) / 2
	}
	return &SalaryDistribution{
		Min:    round(values[0], 0),
		Median: round(median, 0),
		Max:    round(values[n-1], 0),
	}
}

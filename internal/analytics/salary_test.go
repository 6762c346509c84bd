package analytics

import (
	"testing"

	"job-insight/internal/domain/offer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSalaryFT(t *testing.T) {
	cases := []struct {
		label  string
		lo, hi float64
		ok     bool
	}{
		{label: "Annuel de 40000.00 Euros à 45000.00 Euros sur 12 mois", lo: 40000, hi: 45000, ok: true},
		{label: "Mensuel de 2000.00 Euros à 2500.00 Euros sur 13 mois", lo: 24000, hi: 30000, ok: true},
		{label: "Mensuel de 1801,80 Euros", lo: 21621.6, hi: 21621.6, ok: true},
		{label: "Horaire de 12.00 Euros", lo: 12 * 151.67 * 12, hi: 12 * 151.67 * 12, ok: true},
		{label: "35000 brut", lo: 35000, hi: 35000, ok: true},
		{label: "Selon profil", ok: false},
		{label: "", ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.label, func(t *testing.T) {
			lo, hi, ok := ParseSalaryFT(tc.label)
			assert.Equal(t, tc.ok, ok)
			assert.InDelta(t, tc.lo, lo, 1e-6)
			assert.InDelta(t, tc.hi, hi, 1e-6)
		})
	}
}

func TestDetectUnit(t *testing.T) {
	assert.Equal(t, UnitHourly, DetectUnit("11 €/h"))
	assert.Equal(t, UnitAnnual, DetectUnit("annuel de 30000 euros"))
	assert.Equal(t, UnitMonthly, DetectUnit("2000 euros par mois"))
	assert.Equal(t, UnitAnnual, DetectUnit("45k"))
}

func TestHasSalaryWTTJ(t *testing.T) {
	assert.True(t, HasSalaryWTTJ("45000-55000 EUR/year"))
	assert.True(t, HasSalaryWTTJ("Salaire : selon expérience"))
	assert.False(t, HasSalaryWTTJ("Non spécifié"))
	assert.False(t, HasSalaryWTTJ(""))
}

func TestAnalyzeSalary_FranceTravail(t *testing.T) {
	jobs := []offer.JobOffer{
		{ID: "1", Source: offer.SourceFranceTravail, Salary: "Annuel de 30000 Euros à 40000 Euros"},
		{ID: "2", Source: offer.SourceFranceTravail, Salary: "Mensuel de 3000 Euros sur 12 mois"},
		{ID: "3", Source: offer.SourceFranceTravail, Salary: ""},
		{ID: "4", Source: offer.SourceWTTJ, Salary: "50k€"},
	}
	rep, err := AnalyzeSalary(jobs, offer.SourceFranceTravail)
	require.NoError(t, err)

	assert.Equal(t, SalaryKPIs{TotalOffers: 3, WithSalary: 2, PctWithSalary: 66.7}, rep.KPIs)
	require.NotNil(t, rep.Distribution)
	assert.Equal(t, SalaryDistribution{Min: 30000, Median: 36000, Max: 40000}, *rep.Distribution)
	require.Len(t, rep.Offers, 3)
	assert.False(t, rep.Offers[2].HasSalary)
	assert.Nil(t, rep.Offers[2].Min)
}

func TestAnalyzeSalary_WTTJ(t *testing.T) {
	jobs := []offer.JobOffer{
		{ID: "a", Source: offer.SourceWTTJ, Salary: "45000-55000 EUR/year"},
		{ID: "b", Source: offer.SourceWTTJ, Salary: ""},
	}
	rep, err := AnalyzeSalary(jobs, offer.SourceWTTJ)
	require.NoError(t, err)
	assert.Equal(t, SalaryKPIs{TotalOffers: 2, WithSalary: 1, PctWithSalary: 50}, rep.KPIs)
	assert.Nil(t, rep.Distribution)
}

func TestAnalyzeSalary_UnknownSource(t *testing.T) {
	_, err := AnalyzeSalary(nil, "Indeed")
	assert.ErrorIs(t, err, ErrUnknownSource)
}

func TestAnalyzeSalary_Empty(t *testing.T) {
	rep, err := AnalyzeSalary(nil, offer.SourceFranceTravail)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rep.KPIs.PctWithSalary)
	assert.Nil(t, rep.Distribution)
}

package wttj

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"job-insight/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingPage(page int, last bool, ids ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><ul>")
	for _, id := range ids {
		fmt.Fprintf(&b, `<li data-testid="search-results-list-item-wrapper">
<a href="/fr/companies/acme/jobs/%s"><h2>Offer %s</h2></a>
<span class="wui-text sc-1">Acme</span><time datetime="2026-01-0%d"></time></li>`, id, id, page)
	}
	b.WriteString("</ul>")
	disabled := "false"
	if last {
		disabled = "true"
	}
	fmt.Fprintf(&b, `<nav aria-label="Pagination"><ul><li><a href="/jobs?page=%d">%d</a></li><li><a aria-disabled="%s" href="/jobs?page=%d">next</a></li></ul></nav>`,
		page, page, disabled, page+1)
	b.WriteString("</body></html>")
	return b.String()
}

const detailTmpl = `<html><head><script type="application/ld+json">%s</script></head><body></body></html>`

func detailJSON(employment, locality string, months int) string {
	return fmt.Sprintf(`{"@context":"https://schema.org","@type":"JobPosting","description":"Build pipelines",
"employmentType":%q,"industry":"Software",
"baseSalary":{"currency":"EUR","value":{"minValue":40000,"maxValue":50000,"unitText":"YEAR"}},
"jobLocation":[{"address":{"addressLocality":%q,"postalCode":"75002"}}],
"experienceRequirements":{"monthsOfExperience":%d},
"educationRequirements":{"credentialCategory":"Bac +5"},
"hiringOrganization":{"name":"Acme","sameAs":"https://acme.test","address":{"streetAddress":"1 rue X"}},
"skills":["Python","SQL"]}`, employment, locality, months)
}

func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/jobs", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "", "1":
			_, _ = w.Write([]byte(listingPage(1, false, "a", "b")))
		case "2":
			_, _ = w.Write([]byte(listingPage(2, true, "b", "c")))
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/fr/companies/acme/jobs/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/fr/companies/acme/jobs/")
		switch id {
		case "a":
			fmt.Fprintf(w, detailTmpl, detailJSON("FULL_TIME", "Paris", 36))
		case "b":
			fmt.Fprintf(w, detailTmpl, detailJSON("INTERN", "Lyon", 0))
		default:
			_, _ = w.Write([]byte("<html><body>no metadata</body></html>"))
		}
	})
	return httptest.NewServer(mux)
}

func TestCollect_ListsPaginatesAndDedupes(t *testing.T) {
	srv := newSite(t)
	defer srv.Close()

	c := New(config.WTTJConfig{BaseURL: srv.URL + "/jobs?page=3", MaxPages: 5}, nil)
	got, err := c.Collect(context.Background(), Options{Keywords: []string{"data"}})
	require.NoError(t, err)
	require.Len(t, got, 3)

	a := got[0]
	assert.Equal(t, "Offer a", a.Title)
	assert.Equal(t, "Acme", a.Company)
	assert.Equal(t, "2026-01-01", a.Date)
	assert.True(t, strings.HasSuffix(a.Link, "/fr/companies/acme/jobs/a"))
	assert.Equal(t, "FULL_TIME", a.ContractNorm)
	assert.Equal(t, "Paris, 75002", a.Location)
	assert.Equal(t, "40000-50000 EUR/year", a.Salary)
	require.NotNil(t, a.ExperienceYears)
	assert.Equal(t, 3, *a.ExperienceYears)
	assert.Equal(t, "3 ans d’expérience", a.Experience)
	assert.Equal(t, "Bac +5", a.Education)
	assert.Equal(t, "Acme | 1 rue X | https://acme.test", a.CompanyInfo)
	assert.Equal(t, []string{"Python", "SQL"}, a.CompetencesTechniques.Strings())

	c3 := got[2]
	assert.Equal(t, "Offer c", c3.Title)
	assert.Empty(t, c3.Description)
}

func TestCollect_MaxPagesStopsPagination(t *testing.T) {
	srv := newSite(t)
	defer srv.Close()

	c := New(config.WTTJConfig{BaseURL: srv.URL + "/jobs"}, nil)
	got, err := c.Collect(context.Background(), Options{Keywords: []string{"data"}, MaxPages: 1})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCollect_Filters(t *testing.T) {
	srv := newSite(t)
	defer srv.Close()

	c := New(config.WTTJConfig{BaseURL: srv.URL + "/jobs"}, nil)
	minYears := 1
	got, err := c.Collect(context.Background(), Options{
		Keywords:  []string{"data"},
		Locations: []string{"paris"},
		Contracts: []string{"full_time"},
		MinYears:  &minYears,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Offer a", got[0].Title)
}

func TestCollect_NoKeywords(t *testing.T) {
	got, err := New(config.WTTJConfig{}, nil).Collect(context.Background(), Options{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBuildSearchURL(t *testing.T) {
	got, err := BuildSearchURL("https://www.welcometothejungle.com/fr/jobs?refinementList%5Boffices.country_code%5D%5B%5D=FR&page=4&query=old", "data analyst")
	require.NoError(t, err)
	assert.Contains(t, got, "query=data+analyst")
	assert.Contains(t, got, "page=1")
	assert.NotContains(t, got, "query=old")

	got, err = BuildSearchURL("https://example.test/jobs", "go")
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/jobs?query=go", got)
}

func TestNormalizeContract(t *testing.T) {
	cases := map[string]string{
		"INTERN":     "INTERN",
		"Stage":      "INTERN",
		"TEMPORARY":  "TEMPORAIN",
		"cdd":        "TEMPORAIN",
		"FULL_TIME":  "FULL_TIME",
		"CDI":        "FULL_TIME",
		"PART_TIME":  "OTHER",
		"":           "OTHER",
		"CONTRACTOR": "TEMPORAIN",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeContract(in), in)
	}
}

func TestExperienceYears(t *testing.T) {
	y, ok := ExperienceYears(map[string]any{"experienceRequirements": map[string]any{"monthsOfExperience": 18.0}})
	assert.True(t, ok)
	assert.Equal(t, 2, y)

	y, ok = ExperienceYears(map[string]any{"description": "Au moins 5 ans en data"})
	assert.True(t, ok)
	assert.Equal(t, 5, y)

	_, ok = ExperienceYears(map[string]any{"description": "junior"})
	assert.False(t, ok)
}

func TestFindJobPosting_Graph(t *testing.T) {
	p := findJobPosting([]byte(`{"@graph":[{"@type":"Organization"},{"@type":"JobPosting","title":"X"}]}`))
	require.NotNil(t, p)
	assert.Equal(t, "X", p["title"])
	assert.Nil(t, findJobPosting([]byte(`not json`)))
}

func TestExperienceMatch(t *testing.T) {
	two, one, three := 2, 1, 3
	assert.True(t, experienceMatch(nil, nil, nil))
	assert.False(t, experienceMatch(nil, &one, nil))
	assert.True(t, experienceMatch(&two, &one, &three))
	assert.False(t, experienceMatch(&two, &three, nil))
	assert.False(t, experienceMatch(&three, nil, &two))
}

type stubTransport struct {
	pages map[string]string
	calls []string
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.calls = append(s.calls, req.URL.Path)
	body, ok := s.pages[req.URL.Path]
	status := http.StatusOK
	if !ok {
		status = http.StatusNotFound
	}
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"text/html"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}, nil
}

func TestCollect_CustomTransport(t *testing.T) {
	rt := &stubTransport{pages: map[string]string{
		"/jobs":                     listingPage(1, true, "a"),
		"/fr/companies/acme/jobs/a": fmt.Sprintf(detailTmpl, detailJSON("CDI", "Nantes", 24)),
	}}
	c := New(config.WTTJConfig{BaseURL: "https://board.test/jobs"}, nil).WithTransport(rt)

	got, err := c.Collect(context.Background(), Options{Keywords: []string{"go"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Nantes, 75002", got[0].Location)
	assert.Equal(t, "FULL_TIME", got[0].ContractNorm)
	assert.Equal(t, []string{"/jobs", "/fr/companies/acme/jobs/a"}, rt.calls)
}

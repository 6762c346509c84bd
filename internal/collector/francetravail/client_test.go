package francetravail

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"job-insight/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu     sync.Mutex
	total  int
	ranges []string
	auth   []string
	form   []string
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		f.mu.Lock()
		f.form = append(f.form, r.PostForm.Get("grant_type")+"|"+r.PostForm.Get("client_id")+"|"+r.PostForm.Get("scope"))
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-1","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f.mu.Lock()
		f.ranges = append(f.ranges, q.Get("range"))
		f.auth = append(f.auth, r.Header.Get("Authorization"))
		f.mu.Unlock()

		var start, end int
		_, _ = fmt.Sscanf(q.Get("range"), "%d-%d", &start, &end)
		if start >= f.total {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if end >= f.total {
			end = f.total - 1
		}
		res := make([]map[string]any, 0)
		for i := start; i <= end; i++ {
			res = append(res, map[string]any{"id": fmt.Sprintf("ft-%d", i), "intitule": "Data " + q.Get("motsCles")})
		}
		w.WriteHeader(http.StatusPartialContent)
		_ = json.NewEncoder(w).Encode(map[string]any{"resultats": res})
	})
	return mux
}

func TestSearch_PagesUntilShortPage(t *testing.T) {
	api := &fakeAPI{total: 5}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	c := NewClientWithHTTP(srv.Client(), srv.URL+"/search", nil).WithPause(0)
	got, err := c.Search(context.Background(), Query{Keywords: "python", Step: 2, MaxResults: 100})
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, "ft-4", got[4].ID.String())
	assert.Equal(t, "Data python", got[0].Intitule.String())
	assert.Equal(t, []string{"0-1", "2-3", "4-5"}, api.ranges)
}

func TestSearch_StopsAtMaxResults(t *testing.T) {
	api := &fakeAPI{total: 1000}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	c := NewClientWithHTTP(srv.Client(), srv.URL+"/search", nil).WithPause(0)
	got, err := c.Search(context.Background(), Query{Keywords: "data", Step: 150, MaxResults: 600})
	require.NoError(t, err)
	assert.Len(t, got, 600)
	assert.Equal(t, []string{"0-149", "150-299", "300-449", "450-599"}, api.ranges)
}

func TestSearch_NoContent(t *testing.T) {
	api := &fakeAPI{total: 0}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	got, err := NewClientWithHTTP(srv.Client(), srv.URL+"/search", nil).Search(context.Background(), Query{Keywords: "x"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearch_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClientWithHTTP(srv.Client(), srv.URL, nil).Search(context.Background(), Query{Keywords: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestSearch_SkipsUndecodableRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"resultats":[
			{"id":"ok-1","intitule":"Data Analyst"},
			{"id":"bad","lieuTravail":{"latitude":"north"}},
			{"id":"ok-2","intitule":42,"entreprise":{"nom":["x"]}}
		]}`))
	}))
	defer srv.Close()

	got, err := NewClientWithHTTP(srv.Client(), srv.URL, nil).Search(context.Background(), Query{Keywords: "x", Step: 150})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ok-1", got[0].ID.String())
	assert.Equal(t, "ok-2", got[1].ID.String())
	assert.Empty(t, got[1].Intitule)
	assert.Empty(t, got[1].Entreprise.Nom)
}

func TestSearch_ForwardsFilters(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"resultats":[]}`))
	}))
	defer srv.Close()

	_, err := NewClientWithHTTP(srv.Client(), srv.URL, nil).Search(context.Background(), Query{Keywords: "go", Location: "75", ContractType: "CDI"})
	require.NoError(t, err)
	assert.True(t, strings.Contains(seen, "lieuTravail=75"))
	assert.True(t, strings.Contains(seen, "typeContrat=CDI"))
	assert.True(t, strings.Contains(seen, "sort=1"))
}

func TestNewClient_ClientCredentials(t *testing.T) {
	api := &fakeAPI{total: 1}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	c, err := NewClient(context.Background(), config.FranceTravailConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		TokenURL:     srv.URL + "/token",
		SearchURL:    srv.URL + "/search",
		Scope:        "api_offresdemploiv2 o2dsoffre",
	}, nil)
	require.NoError(t, err)

	got, err := c.Search(context.Background(), Query{Keywords: "go"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, []string{"Bearer tok-1"}, api.auth)
	assert.Equal(t, []string{"client_credentials|id|api_offresdemploiv2 o2dsoffre"}, api.form)
}

func TestNewClient_NotConfigured(t *testing.T) {
	_, err := NewClient(context.Background(), config.FranceTravailConfig{}, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

package distro

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBodhiServer(t *testing.T, pages [][]Release) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/releases/" || r.URL.Query().Get("exclude_archived") != "True" {
			http.NotFound(w, r)
			return
		}
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 || page > len(pages) {
			http.Error(w, "bad page", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"releases":      pages[page-1],
			"page":          page,
			"pages":         len(pages),
			"rows_per_page": rowsPerPage,
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestBodhiReleases(t *testing.T) {
	server := newBodhiServer(t, [][]Release{testReleases[:3], testReleases[3:]})

	client := NewBodhiClient(server.URL, logrus.New())
	releases, err := client.Releases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testReleases, releases)
}

func TestBodhiReleasesError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewBodhiClient(server.URL, logrus.New())
	_, err := client.Releases(context.Background())
	require.ErrorContains(t, err, "404")
}

func TestBodhiReleasesURL(t *testing.T) {
	client := NewBodhiClient("https://bodhi.example.com/", nil)
	u, err := client.releasesURL(2)
	require.NoError(t, err)
	assert.Equal(t, "https://bodhi.example.com/releases/?exclude_archived=True&page=2&rows_per_page=100", u)
}

package distro

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	rh "github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/fedora-ci/rpminspect-runner/internal/common"
)

const DefaultBodhiURL = "https://bodhi.fedoraproject.org"

const (
	retryCount  = 5
	rowsPerPage = 100
)

// Release is the subset of a Bodhi release record the runner reads.
type Release struct {
	Name     string `json:"name"`
	LongName string `json:"long_name"`
	Version  string `json:"version"`
	IDPrefix string `json:"id_prefix"`
	Branch   string `json:"branch"`
	DistTag  string `json:"dist_tag"`
	State    string `json:"state"`
}

type releasesPage struct {
	Releases []Release `json:"releases"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
}

// BodhiClient lists releases known to a Bodhi instance.
type BodhiClient struct {
	client  *rh.Client
	baseURL string
}

func NewBodhiClient(baseURL string, logger *logrus.Logger) *BodhiClient {
	return &BodhiClient{
		client:  common.NewRetryableClient(logger, retryCount),
		baseURL: baseURL,
	}
}

func (c *BodhiClient) releasesURL(page int) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid bodhi URL %s: %w", c.baseURL, err)
	}
	u = u.JoinPath("releases/")
	q := u.Query()
	q.Set("exclude_archived", "True")
	q.Set("rows_per_page", strconv.Itoa(rowsPerPage))
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *BodhiClient) getPage(ctx context.Context, page int) (*releasesPage, error) {
	u, err := c.releasesURL(page)
	if err != nil {
		return nil, err
	}

	req, err := rh.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("bodhi returned %s for %s: %s", resp.Status, u, body)
	}

	var result releasesPage
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("cannot decode bodhi releases: %w", err)
	}

	return &result, nil
}

// Releases returns every release that is not archived, across all pages.
func (c *BodhiClient) Releases(ctx context.Context) ([]Release, error) {
	var releases []Release
	for page := 1; ; page++ {
		result, err := c.getPage(ctx, page)
		if err != nil {
			return nil, err
		}
		releases = append(releases, result.Releases...)
		logrus.Debugf("Fetched bodhi releases page %d of %d", page, result.Pages)
		if page >= result.Pages {
			break
		}
	}
	return releases, nil
}

// Package copart talks to the Copart UK vehicle finder. The primary path is
// the public search API; when that fails the client falls back to the HTML
// search page, which carries a server-side filtered subset of the same lots.
package copart

import (
	"context"
	"fmt"
	"io"
	"strings"

	"copartwatch/internal/models"
	"copartwatch/internal/network"
	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/rs/zerolog"
)

const (
	searchAPIURL = "https://www.copart.co.uk/public/vehicleFinder/search"
	lotBase      = "https://www.copart.co.uk/lot/"

	// SearchURL is the human search page; it doubles as the alert footer link
	// and as the fallback fetch target.
	SearchURL = "https://www.copart.co.uk/vehicles"

	refererURL = "https://www.copart.co.uk/lotSearchResults"
	pageSize   = 100
)

type Client struct {
	http    *network.Client
	log     zerolog.Logger
	apiURL  string
	pageURL string
}

func NewClient(client *network.Client, log zerolog.Logger) *Client {
	return &Client{http: client, log: log, apiURL: searchAPIURL, pageURL: SearchURL}
}

// Fetch runs one search for the given criteria. The API response is
// authoritative; the page fallback only serves a run when the API path
// fails outright, and a fallback page that parses to zero lots is still a
// successful (empty) result.
func (c *Client) Fetch(ctx context.Context, criteria models.Criteria) (models.SearchResult, error) {
	result, apiErr := c.fetchAPI(ctx, criteria)
	if apiErr == nil {
		return result, nil
	}

	c.log.Warn().Err(apiErr).Msg("search api failed, trying page fallback")

	result, pageErr := c.fetchSearchPage(ctx, criteria)
	if pageErr != nil {
		return models.SearchResult{}, fmt.Errorf("vehicle search: %w (page fallback: %v)", apiErr, pageErr)
	}
	return result, nil
}

func (c *Client) fetchAPI(ctx context.Context, criteria models.Criteria) (models.SearchResult, error) {
	form := buildSearchForm(criteria)

	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return models.SearchResult{}, err
	}
	applyAPIHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return models.SearchResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != fhttp.StatusOK {
		return models.SearchResult{}, fmt.Errorf("%w: http %d", network.ErrRequestFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.SearchResult{}, err
	}
	return decodeSearchResponse(body)
}

func applyAPIHeaders(req *fhttp.Request) {
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Referer", refererURL)
	req.Header.Set("Cache-Control", "max-age=0")
}

func lotURL(lotNumber string) string {
	return lotBase + lotNumber
}

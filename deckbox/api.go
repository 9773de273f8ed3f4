package deckbox

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
)

const (
	BaseURL = "https://deckbox.org"
)

type Client struct {
	client  *http.Client
	baseURL string
}

func NewClient(baseURL string) *Client {
	dbx := Client{}
	dbx.client = cleanhttp.DefaultClient()
	dbx.baseURL = strings.TrimSuffix(baseURL, "/")
	if dbx.baseURL == "" {
		dbx.baseURL = BaseURL
	}
	return &dbx
}

// CardURL returns the deckbox page of the given card name.
// Slashes are kept as is, so that "Fire // Ice" becomes /mtg/Fire%20//%20Ice.
func (dbx *Client) CardURL(name string) (*url.URL, error) {
	u, err := url.Parse(dbx.baseURL)
	if err != nil {
		return nil, err
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/mtg/" + name
	u.RawPath = ""
	return u, nil
}

// HasCombinedName reports whether deckbox tracks the card under the given
// full name: the page is served directly instead of redirecting elsewhere.
func (dbx *Client) HasCombinedName(ctx context.Context, name string) (bool, error) {
	link, err := dbx.CardURL(name)
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link.String(), nil)
	if err != nil {
		return false, err
	}

	resp, err := dbx.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return false, fmt.Errorf("unexpected status %s for %s", resp.Status, link.String())
	}

	return sameLocation(link, resp.Request.URL), nil
}

// The redirect target may differ from the request only by its query,
// fragment, percent-encoding or by doubled slashes, none of which count
// as a redirect. Paths are compared decoded.
func sameLocation(requested, final *url.URL) bool {
	if !strings.EqualFold(requested.Host, final.Host) {
		return false
	}
	if requested.Path == final.Path {
		return true
	}
	return collapseSlashes(requested.Path) == collapseSlashes(final.Path)
}

func collapseSlashes(link string) string {
	return strings.Replace(link, "//", "/", -1)
}

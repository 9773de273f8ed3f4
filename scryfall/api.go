package scryfall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

const (
	BaseURL = "https://api.scryfall.com/cards/search?order=cmc&q="

	// Scryfall asks for 50-100ms between requests
	defaultRate  = 10
	defaultBurst = 1

	userAgent = "tcg2deckbox/1.0"
)

var ErrUnparsable = errors.New("unparsable response")

type LogCallbackFunc func(format string, a ...interface{})

type Client struct {
	LogCallback LogCallbackFunc

	client *retryablehttp.Client
}

func NewClient() *Client {
	sf := Client{}
	sf.client = retryablehttp.NewClient()
	sf.client.Logger = nil
	sf.client.RetryMax = 0
	sf.client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	sf.client.HTTPClient.Transport = &limitTransport{
		Parent:  sf.client.HTTPClient.Transport,
		Limiter: rate.NewLimiter(defaultRate, defaultBurst),
	}
	return &sf
}

// SetRetries sets how many times a failed page request is retried.
func (sf *Client) SetRetries(n int) {
	if n < 0 {
		n = 0
	}
	sf.client.RetryMax = n
}

type limitTransport struct {
	Parent  http.RoundTripper
	Limiter *rate.Limiter
}

func (t *limitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	err := t.Limiter.Wait(req.Context())
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	return t.Parent.RoundTrip(req)
}

func (sf *Client) printf(format string, a ...interface{}) {
	if sf.LogCallback != nil {
		sf.LogCallback("[SF] "+format, a...)
	}
}

// SearchURL returns the search endpoint link for the given query.
func SearchURL(query string) string {
	return BaseURL + url.QueryEscape(query)
}

type searchResponse struct {
	Object   string `json:"object"`
	Details  string `json:"details"`
	HasMore  bool   `json:"has_more"`
	NextPage string `json:"next_page"`
	Data     []Card `json:"data"`
}

// Search downloads every page of results starting from link, calling fn for
// each card found. Pagination stops at the first page that cannot be
// retrieved or decoded, and that error is returned; cards from the pages
// before it have already been passed to fn.
func (sf *Client) Search(ctx context.Context, link string, fn func(card *Card)) error {
	for page := 1; link != ""; page++ {
		unescaped, err := url.QueryUnescape(link)
		if err != nil {
			unescaped = link
		}
		sf.printf("Begin: Download '%s', page %d of results", unescaped, page)

		response, err := sf.searchPage(ctx, link)
		if err != nil {
			return fmt.Errorf("page %d of %s: %w", page, link, err)
		}

		for i := range response.Data {
			fn(&response.Data[i])
		}

		link = response.NextPage
	}
	return nil
}

func (sf *Client) searchPage(ctx context.Context, link string) (*searchResponse, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}

	resp, err := sf.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var response searchResponse
	err = json.Unmarshal(data, &response)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnparsable, err.Error())
	}
	if response.Object == "error" {
		return nil, fmt.Errorf("%w: %s", ErrUnparsable, response.Details)
	}
	if response.Object != "list" {
		return nil, fmt.Errorf("%w: unexpected object %q", ErrUnparsable, response.Object)
	}

	return &response, nil
}

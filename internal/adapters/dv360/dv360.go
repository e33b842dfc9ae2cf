package dv360

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"github.com/jpp0ca/DV360Trackers-API/internal/domain"
)

const (
	// DefaultBaseURL is the Display & Video 360 REST endpoint.
	DefaultBaseURL = "https://displayvideo.googleapis.com/v3"

	updateMask = "thirdPartyUrls"
)

// Client implements ports.CreativeAPI against the DV360 REST API.
type Client struct {
	client  *http.Client
	tokens  oauth2.TokenSource
	baseURL string
}

// NewClient creates a DV360 client. Requests are authorized with tokens from
// ts. If client is nil, http.DefaultClient is used; an empty baseURL selects
// DefaultBaseURL.
func NewClient(client *http.Client, ts oauth2.TokenSource, baseURL string) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		client:  client,
		tokens:  ts,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// -- API resource types (internal) -------------------------------------------

type creativeResource struct {
	Name           string          `json:"name,omitempty"`
	AdvertiserID   string          `json:"advertiserId,omitempty"`
	CreativeID     string          `json:"creativeId,omitempty"`
	DisplayName    string          `json:"displayName,omitempty"`
	CreativeType   string          `json:"creativeType,omitempty"`
	HostingSource  string          `json:"hostingSource,omitempty"`
	ThirdPartyURLs []thirdPartyURL `json:"thirdPartyUrls,omitempty"`
}

type thirdPartyURL struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type patchBody struct {
	ThirdPartyURLs []thirdPartyURL `json:"thirdPartyUrls"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// StatusError is returned for non-2xx API responses.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("dv360 API returned status %d: %s", e.StatusCode, e.Message)
}

// -- CreativeAPI implementation ----------------------------------------------

func (c *Client) GetCreative(ctx context.Context, advertiserID, creativeID string) (*domain.Creative, error) {
	body, err := c.do(ctx, http.MethodGet, c.creativeURL(advertiserID, creativeID, false), nil)
	if err != nil {
		return nil, fmt.Errorf("dv360: failed to get creative %s: %w", creativeID, err)
	}

	var res creativeResource
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("dv360: failed to parse creative response: %w", err)
	}

	return toCreative(res, advertiserID, creativeID), nil
}

func (c *Client) PatchThirdPartyURLs(ctx context.Context, advertiserID, creativeID string, urls []domain.TrackerEntry) (*domain.Creative, error) {
	payload := patchBody{ThirdPartyURLs: make([]thirdPartyURL, 0, len(urls))}
	for _, u := range urls {
		payload.ThirdPartyURLs = append(payload.ThirdPartyURLs, thirdPartyURL{Type: string(u.Type), URL: u.URL})
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("dv360: failed to encode patch body: %w", err)
	}

	body, err := c.do(ctx, http.MethodPatch, c.creativeURL(advertiserID, creativeID, true), payloadBytes)
	if err != nil {
		return nil, fmt.Errorf("dv360: failed to patch creative %s: %w", creativeID, err)
	}

	var res creativeResource
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("dv360: failed to parse patch response: %w", err)
	}

	return toCreative(res, advertiserID, creativeID), nil
}

// -- HTTP helpers ------------------------------------------------------------

func (c *Client) creativeURL(advertiserID, creativeID string, withMask bool) string {
	endpoint := fmt.Sprintf("%s/advertisers/%s/creatives/%s",
		c.baseURL, url.PathEscape(advertiserID), url.PathEscape(creativeID))
	if withMask {
		endpoint += "?updateMask=" + url.QueryEscape(updateMask)
	}
	return endpoint
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens == nil {
		return nil, domain.ErrAuthExpired
	}
	token, err := c.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAuthExpired, err)
	}
	token.SetAuthHeader(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
		if resp.StatusCode == http.StatusUnauthorized {
			return nil, errors.Join(domain.ErrAuthExpired, statusErr)
		}
		return nil, statusErr
	}

	return body, nil
}

// -- Helpers -----------------------------------------------------------------

func errorMessage(body []byte) string {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	return strings.TrimSpace(string(body))
}

func toCreative(res creativeResource, advertiserID, creativeID string) *domain.Creative {
	if res.AdvertiserID != "" {
		advertiserID = res.AdvertiserID
	}
	if res.CreativeID != "" {
		creativeID = res.CreativeID
	}

	urls := make([]domain.TrackerEntry, 0, len(res.ThirdPartyURLs))
	for _, u := range res.ThirdPartyURLs {
		urls = append(urls, domain.TrackerEntry{Type: domain.TypeID(u.Type), URL: u.URL})
	}

	return &domain.Creative{
		AdvertiserID:   advertiserID,
		CreativeID:     creativeID,
		DisplayName:    res.DisplayName,
		CreativeType:   res.CreativeType,
		HostingSource:  res.HostingSource,
		ThirdPartyURLs: urls,
	}
}

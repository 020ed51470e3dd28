// Package untis implements the HTTP transport for the WebUntis substitution
// monitor. It posts the JSON request envelope and decodes the response into a
// raw Payload; normalization of the payload lives in the plan package.
package untis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/corpix/uarand"
	"github.com/hhgyloh/untisplan-go/internal/errors"
)

const substitutionPath = "/WebUntis/monitor/substitution/data"

// Client is the HTTP client for the substitution monitor endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	school     string
	format     string
}

// NewClient creates a new monitor client for one school and format.
// baseURL may be a bare host ("ikarus.webuntis.com"), in which case
// https is assumed.
func NewClient(baseURL, school, format string, timeout time.Duration) *Client {
	if !strings.Contains(baseURL, "://") {
		baseURL = "https://" + baseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		school:  school,
		format:  format,
	}
}

// GetSubstitution fetches the raw payload for one day. dateCode is the
// YYYYMMDD wire code of the requested date.
//
// Returns (nil, nil) when the service has no payload for the slot. An error
// object inside the envelope is surfaced verbatim as *errors.RemoteError;
// transport failures (including context cancellation) surface as
// *errors.CommunicationError. No retries happen at this layer.
func (c *Client) GetSubstitution(ctx context.Context, dateCode int) (*Payload, error) {
	reqURL := fmt.Sprintf("%s%s?school=%s", c.baseURL, substitutionPath, url.QueryEscape(c.school))

	body, err := json.Marshal(substitutionRequest{
		SchoolName:                 c.school,
		FormatName:                 c.format,
		Date:                       dateCode,
		MergeBlocks:                true,
		ShowTeacher:                true,
		ShowClass:                  true,
		ShowHour:                   true,
		ShowInfo:                   true,
		ShowRoom:                   true,
		ShowSubject:                true,
		GroupBy:                    1,
		HideAbsent:                 true,
		DepartmentIDs:              []int{},
		DepartmentElementType:      -1,
		HideCancelWithSubstitution: true,
		ShowTime:                   true,
		ShowSubstText:              true,
		ShowAbsentElements:         []int{},
		ShowAffectedElements:       []int{1},
		ShowUnitTime:               true,
		ShowMessages:               true,
		ShowAbsentTeacher:          true,
		ShowCancel:                 true,
	})
	if err != nil {
		return nil, errors.NewCommunicationError(reqURL, 0, fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewCommunicationError(reqURL, 0, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", uarand.GetRandom())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewCommunicationError(reqURL, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, errors.NewCommunicationError(reqURL, resp.StatusCode,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, errors.NewCommunicationError(reqURL, resp.StatusCode,
			fmt.Errorf("decode envelope: %w", err))
	}

	if env.Error != nil {
		return nil, errors.NewRemoteError(env.Error.Message, env.Error.Data, env.Error.Code)
	}

	// No payload means the service has nothing for this slot.
	return env.Payload, nil
}

// BaseURL returns the configured monitor base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

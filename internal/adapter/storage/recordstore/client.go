// Package recordstore adapts the external REST record store (Airtable-style
// CRUD over named tables) to the RecordStore port. Every call goes to the
// wire; the adapter holds no cache.
package recordstore

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

	"github.com/mklnz/offer-relay/internal/core/domain"
)

const maxErrorBody = 512

// record is the wire shape of one row.
type record struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type recordList struct {
	Records []record `json:"records"`
}

type recordCreate struct {
	Records []recordFields `json:"records"`
}

type recordFields struct {
	Fields map[string]any `json:"fields"`
}

type client struct {
	http    *http.Client
	baseURL string
	token   string
}

func newClient(baseURL, token string) *client {
	return &client{
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

func (c *client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + "/" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrUpstream, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s %s: %w", domain.ErrUpstream, method, path, errRecordNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %s %s: status %d: %s", domain.ErrUpstream, method, path, resp.StatusCode, snippet)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: %s %s: decode response: %v", domain.ErrUpstream, method, path, err)
		}
	}
	return nil
}

// byFormula builds the filter query for "{field} = 'value'".
func byFormula(field, value string) url.Values {
	escaped := strings.ReplaceAll(value, "'", "\\'")
	q := url.Values{}
	q.Set("filterByFormula", fmt.Sprintf("{%s}='%s'", field, escaped))
	return q
}

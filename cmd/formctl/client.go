package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/yanizio/playground/internal/form"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const actionPath = "/employee"

// actionClient talks to the employee route of a running playground.
type actionClient struct {
	base string
	http *http.Client
}

func newActionClient(base string) *actionClient {
	return &actionClient{base: strings.TrimRight(base, "/"), http: http.DefaultClient}
}

// submit fetches a CSRF token from the loader, then posts values to the
// action and decodes the returned submission.
func (c *actionClient) submit(ctx context.Context, values url.Values) (*form.Submission, error) {
	var loader struct {
		CSRFToken string `json:"csrfToken"`
	}
	if err := c.do(ctx, http.MethodGet, nil, &loader); err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}

	body := url.Values{}
	for k, vs := range values {
		body[k] = vs
	}
	body.Set(form.CSRFKey, loader.CSRFToken)

	var sub form.Submission
	if err := c.do(ctx, http.MethodPost, body, &sub); err != nil {
		return nil, fmt.Errorf("action: %w", err)
	}
	return &sub, nil
}

func (c *actionClient) do(ctx context.Context, method string, body url.Values, out any) error {
	var rd io.Reader
	if body != nil {
		rd = strings.NewReader(body.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+actionPath, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

package nagios

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"
)

var ErrLoginPage = errors.New("nagios returned HTML instead of JSON (check credentials)")

// Client queries statusjson.cgi with HTTP basic auth.
type Client struct {
	BaseURL  string
	User     string
	Password string
	HTTP     *http.Client
}

func NewClient(baseURL, user, password string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Client{
		BaseURL:  baseURL,
		User:     user,
		Password: password,
		HTTP:     &http.Client{Timeout: timeout},
	}
}

type hostResponse struct {
	Data struct {
		Host *struct {
			Status       int     `json:"status"`
			IsFlapping   bool    `json:"is_flapping"`
			LastTimeUp   float64 `json:"last_time_up"`
			LastTimeDown float64 `json:"last_time_down"`
			PluginOutput string  `json:"plugin_output"`
		} `json:"host"`
	} `json:"data"`
}

func (c *Client) Lookup(ctx context.Context, host string) (HostStatus, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return Unknown(host), fmt.Errorf("parse nagios url: %w", err)
	}
	q := u.Query()
	q.Set("query", "host")
	q.Set("hostname", host)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Unknown(host), err
	}
	if c.User != "" {
		req.SetBasicAuth(c.User, c.Password)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Unknown(host), err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Unknown(host), fmt.Errorf("nagios status %d", resp.StatusCode)
	}
	if mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mt == "text/html" {
		return Unknown(host), ErrLoginPage
	}

	var body hostResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Unknown(host), fmt.Errorf("decode nagios response: %w", err)
	}
	h := body.Data.Host
	if h == nil {
		// host not configured in Nagios
		return Unknown(host), nil
	}
	return HostStatus{
		Host:         host,
		Status:       StatusFromCode(h.Status),
		IsFlapping:   h.IsFlapping,
		LastTimeUp:   h.LastTimeUp,
		LastTimeDown: h.LastTimeDown,
		PluginOutput: h.PluginOutput,
	}, nil
}

package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/tabshell/internal/app/api"
	"github.com/bnema/tabshell/internal/app/tabs"
	"github.com/bnema/tabshell/internal/domain/entity"
)

const (
	requestTimeout  = 10 * time.Second
	maxEventLineLen = 4 * 1024 * 1024
)

// ErrNotRunning is returned when nothing answers on the control address.
var ErrNotRunning = errors.New("tabshell is not running")

// APIError is a non-2xx answer from the control channel.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("tabshell api: %s", http.StatusText(e.Status))
	}
	return fmt.Sprintf("tabshell api: %s", e.Message)
}

// IsNotFound reports whether err is a 404 from the control channel.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client talks to a running tabshell over its HTTP control channel.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	// stream has no timeout; event streams stay open.
	stream *http.Client
}

// NewClient creates a client for the control channel listening on addr
// (host:port or a full http URL).
func NewClient(addr string) (*Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("control address is required")
	}
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	base, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("parse control address: %w", err)
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: requestTimeout},
		stream:  &http.Client{},
	}, nil
}

// Address returns the control channel base URL.
func (c *Client) Address() string {
	return c.baseURL.String()
}

// Windows lists the open top-level windows.
func (c *Client) Windows(ctx context.Context) ([]api.WindowInfo, error) {
	var out []api.WindowInfo
	err := c.doJSON(ctx, http.MethodGet, "/api/windows", nil, nil, &out)
	return out, err
}

// CreateWindow opens a window with one tab on target, or the new tab page.
func (c *Client) CreateWindow(ctx context.Context, target string) (api.WindowInfo, error) {
	var out api.WindowInfo
	body := map[string]string{}
	if target != "" {
		body["url"] = target
	}
	err := c.doJSON(ctx, http.MethodPost, "/api/windows", nil, body, &out)
	return out, err
}

// CloseWindow closes a window and every tab in it.
func (c *Client) CloseWindow(ctx context.Context, win entity.WindowID) error {
	return c.doJSON(ctx, http.MethodDelete, windowPath(win, ""), nil, nil, nil)
}

// State returns the full tab state of a window.
func (c *Client) State(ctx context.Context, win entity.WindowID) (*entity.ReplaceState, error) {
	var out entity.ReplaceState
	if err := c.doJSON(ctx, http.MethodGet, windowPath(win, "/state"), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TabState returns one tab's state with the optional extras filled in.
func (c *Client) TabState(ctx context.Context, win entity.WindowID, index int, opts tabs.TabStateOptions) (*entity.DetailedTabState, error) {
	q := url.Values{}
	if opts.DriveInfo {
		q.Set("driveInfo", "1")
	}
	if opts.SitePerms {
		q.Set("sitePerms", "1")
	}
	var out entity.DetailedTabState
	if err := c.doJSON(ctx, http.MethodGet, windowPath(win, "/tabs/"+strconv.Itoa(index)), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BackgroundTabs lists the background pool.
func (c *Client) BackgroundTabs(ctx context.Context) ([]entity.BackgroundTab, error) {
	var out []entity.BackgroundTab
	err := c.doJSON(ctx, http.MethodGet, "/api/background-tabs", nil, nil, &out)
	return out, err
}

// Command runs a tab command in a window and returns its raw JSON result.
func (c *Client) Command(ctx context.Context, win entity.WindowID, req api.CommandRequest) (json.RawMessage, error) {
	var out struct {
		Result json.RawMessage `json:"result"`
	}
	if err := c.doJSON(ctx, http.MethodPost, windowPath(win, "/commands"), nil, req, &out); err != nil {
		return nil, err
	}
	return out.Result, nil
}

// Events opens the window's state stream. The first event is always a
// replace-state snapshot.
func (c *Client) Events(ctx context.Context, win entity.WindowID) (*EventStream, error) {
	req, err := c.newRequest(ctx, http.MethodGet, windowPath(win, "/events"), nil, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	res, err := c.stream.Do(req)
	if err != nil {
		return nil, c.transportError(err)
	}
	if res.StatusCode >= http.StatusMultipleChoices {
		defer func() { _ = res.Body.Close() }()
		return nil, readAPIError(res)
	}
	return newEventStream(res.Body), nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, query url.Values, body any) (*http.Request, error) {
	reqURL := *c.baseURL
	reqURL.Path = strings.TrimSuffix(reqURL.Path, "/") + endpoint
	if len(query) > 0 {
		reqURL.RawQuery = query.Encode()
	}

	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, query url.Values, body, out any) error {
	req, err := c.newRequest(ctx, method, endpoint, query, body)
	if err != nil {
		return err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return c.transportError(err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode >= http.StatusMultipleChoices {
		return readAPIError(res)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) transportError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w at %s: %w", ErrNotRunning, c.baseURL.Host, err)
}

func readAPIError(res *http.Response) error {
	apiErr := &APIError{Status: res.StatusCode}
	body, _ := io.ReadAll(io.LimitReader(res.Body, 64*1024))
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		apiErr.Message = payload.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}

func windowPath(win entity.WindowID, suffix string) string {
	return "/api/windows/" + url.PathEscape(string(win)) + suffix
}

// EventStream reads server-sent state events.
type EventStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
}

func newEventStream(body io.ReadCloser) *EventStream {
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 0, 64*1024), maxEventLineLen)
	return &EventStream{body: body, scanner: sc}
}

// Next blocks until the next event arrives. It returns io.EOF when the
// window closes or the server goes away.
func (s *EventStream) Next() (tabs.Event, error) {
	var data strings.Builder
	for s.scanner.Scan() {
		line := s.scanner.Text()
		switch {
		case line == "":
			if data.Len() == 0 {
				continue
			}
			var ev tabs.Event
			if err := json.Unmarshal([]byte(data.String()), &ev); err != nil {
				return tabs.Event{}, fmt.Errorf("decode event: %w", err)
			}
			return ev, nil
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	if err := s.scanner.Err(); err != nil {
		return tabs.Event{}, err
	}
	return tabs.Event{}, io.EOF
}

// Close ends the stream.
func (s *EventStream) Close() error {
	return s.body.Close()
}

package sheetstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/carewell/carebook-backend/pkg/config"
	pkgerrors "github.com/carewell/carebook-backend/pkg/errors"
	"github.com/carewell/carebook-backend/pkg/logger"
)

const (
	apiKeyHeader = "X-Api-Key"

	TableMembers      = "members"
	TableBookings     = "bookings"
	TableTransactions = "transactions"
)

var (
	errBaseURLRequired = errors.New("sheetstore base URL is required")
	errAPIKeyRequired  = errors.New("sheetstore API key is required")
	errLoggerRequired  = errors.New("sheetstore logger is required")
)

// Row is one record from the legacy spreadsheet-style datastore. Field
// names follow whatever column headers the sheet uses; callers map them
// into typed records.
type Row struct {
	ID        string            `json:"id"`
	Fields    map[string]string `json:"fields"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type rowsPage struct {
	Rows       []Row  `json:"rows"`
	NextCursor string `json:"next_cursor"`
}

// Client talks to the legacy sheet datastore's REST facade with
// centralized auth, timeouts, logging, and error mapping.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *logger.Logger
}

// NewClient validates the legacy datastore credentials and builds a client
// with a bounded per-request timeout.
func NewClient(ctx context.Context, cfg config.SheetStoreConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid sheetstore base URL: %w", err)
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logg,
	}

	logg.Info(ctx, "sheetstore client initialized")
	return c, nil
}

// ListRows pages through a table. An empty cursor starts from the first
// page; the returned cursor is empty on the last page.
func (c *Client) ListRows(ctx context.Context, table string, cursor string) ([]Row, string, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "table is required")
	}

	endpoint := fmt.Sprintf("%s/tables/%s/rows", c.baseURL, url.PathEscape(table))
	if cursor != "" {
		endpoint += "?cursor=" + url.QueryEscape(cursor)
	}

	var page rowsPage
	if err := c.getJSON(ctx, endpoint, "list_rows", table, &page); err != nil {
		return nil, "", err
	}
	return page.Rows, page.NextCursor, nil
}

// Ping verifies the datastore is reachable with the configured key.
func (c *Client) Ping(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	return c.getJSON(ctx, c.baseURL+"/health", "ping", "", &out)
}

func (c *Client) getJSON(ctx context.Context, endpoint, op, table string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("sheetstore %s failed", op))
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	c.log(ctx, "request", op, table, 0)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logError(ctx, op, err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("sheetstore %s failed", op))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("sheetstore returned status %d", resp.StatusCode)
		c.logError(ctx, op, err)
		return pkgerrors.Wrap(codeForStatus(resp.StatusCode), err, fmt.Sprintf("sheetstore %s failed", op))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logError(ctx, op, err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("sheetstore %s returned malformed JSON", op))
	}

	c.log(ctx, "response", op, table, resp.StatusCode)
	return nil
}

func (c *Client) log(ctx context.Context, phase, op, table string, status int) {
	if c == nil || c.logger == nil {
		return
	}
	fields := map[string]any{"operation": op, "phase": phase}
	if table != "" {
		fields["table"] = table
	}
	if status != 0 {
		fields["status"] = status
	}
	ctx = c.logger.WithFields(ctx, fields)
	c.logger.Debug(ctx, fmt.Sprintf("sheetstore %s", phase))
}

func (c *Client) logError(ctx context.Context, op string, err error) {
	if c == nil || c.logger == nil {
		return
	}
	ctx = c.logger.WithFields(ctx, map[string]any{"operation": op})
	c.logger.Error(ctx, "sheetstore request failed", err)
}

func codeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return pkgerrors.CodeUnauthorized
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusTooManyRequests:
		return pkgerrors.CodeRateLimit
	default:
		return pkgerrors.CodeDependency
	}
}

package sheetstore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/carewell/carebook-backend/pkg/config"
	pkgerrors "github.com/carewell/carebook-backend/pkg/errors"
	"github.com/carewell/carebook-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "sheetstore-test", Output: io.Discard})
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg := config.SheetStoreConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		RequestTimeout: 2 * time.Second,
	}
	client, err := NewClient(context.Background(), cfg, testLogger())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewClientValidation(t *testing.T) {
	ctx := context.Background()
	if _, err := NewClient(ctx, config.SheetStoreConfig{APIKey: "k"}, testLogger()); err == nil {
		t.Fatal("expected error for missing base URL")
	}
	if _, err := NewClient(ctx, config.SheetStoreConfig{BaseURL: "http://sheets"}, testLogger()); err == nil {
		t.Fatal("expected error for missing API key")
	}
	if _, err := NewClient(ctx, config.SheetStoreConfig{BaseURL: "http://sheets", APIKey: "k"}, nil); err == nil {
		t.Fatal("expected error for nil logger")
	}
}

func TestListRowsSendsKeyAndPaginates(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		if r.URL.Path != "/tables/members/rows" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("cursor") == "" {
			io.WriteString(w, `{"rows":[{"id":"m-1","fields":{"phone":"13800000001","name":"Wang"}}],"next_cursor":"p2"}`)
			return
		}
		io.WriteString(w, `{"rows":[{"id":"m-2","fields":{"phone":"13800000002","name":"Li"}}],"next_cursor":""}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	rows, cursor, err := client.ListRows(context.Background(), TableMembers, "")
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if gotKey != "test-key" {
		t.Fatalf("expected API key header, got %q", gotKey)
	}
	if len(rows) != 1 || rows[0].ID != "m-1" || rows[0].Fields["name"] != "Wang" {
		t.Fatalf("unexpected first page rows: %+v", rows)
	}
	if cursor != "p2" {
		t.Fatalf("expected cursor p2, got %q", cursor)
	}

	rows, cursor, err = client.ListRows(context.Background(), TableMembers, cursor)
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "m-2" {
		t.Fatalf("unexpected second page rows: %+v", rows)
	}
	if cursor != "" {
		t.Fatalf("expected empty cursor on last page, got %q", cursor)
	}
}

func TestListRowsMapsStatusCodes(t *testing.T) {
	cases := []struct {
		status int
		code   pkgerrors.Code
	}{
		{http.StatusUnauthorized, pkgerrors.CodeUnauthorized},
		{http.StatusNotFound, pkgerrors.CodeNotFound},
		{http.StatusTooManyRequests, pkgerrors.CodeRateLimit},
		{http.StatusInternalServerError, pkgerrors.CodeDependency},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		client := newTestClient(t, srv.URL)
		_, _, err := client.ListRows(context.Background(), TableBookings, "")
		srv.Close()
		if err == nil {
			t.Fatalf("status %d: expected error", tc.status)
		}
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != tc.code {
			t.Fatalf("status %d: expected code %s, got %v", tc.status, tc.code, err)
		}
	}
}

func TestListRowsRejectsEmptyTable(t *testing.T) {
	client := newTestClient(t, "http://sheets.internal")
	_, _, err := client.ListRows(context.Background(), "  ", "")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListRowsMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"rows": [`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, _, err := client.ListRows(context.Background(), TableTransactions, "")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		io.WriteString(w, `{"status":"ok"}`)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

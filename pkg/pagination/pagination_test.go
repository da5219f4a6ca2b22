package pagination

import (
	"net/url"
	"testing"
)

func TestNormalizeLimit(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, DefaultLimit},
		{-5, DefaultLimit},
		{10, 10},
		{MaxLimit, MaxLimit},
		{MaxLimit + 1, MaxLimit},
	}
	for _, tc := range tests {
		if got := NormalizeLimit(tc.in); got != tc.want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFromQuery(t *testing.T) {
	params := FromQuery(url.Values{"limit": {"10"}, "offset": {"30"}})
	if params.Limit != 10 || params.Offset != 30 {
		t.Fatalf("unexpected params %+v", params)
	}

	params = FromQuery(url.Values{"limit": {"garbage"}, "offset": {"-1"}})
	if params.Limit != DefaultLimit || params.Offset != 0 {
		t.Fatalf("expected defaults, got %+v", params)
	}
}

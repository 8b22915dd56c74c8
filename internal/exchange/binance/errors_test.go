package binance

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"spot-tradebot/internal/core"
)

func TestParseAPIErrorClassification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   []error
		reject []error
	}{
		{
			name:   "bad api key",
			status: http.StatusUnauthorized,
			body:   `{"code":-2015,"msg":"Invalid API-key, IP, or permissions for action."}`,
			want:   []error{core.ErrAuthentication},
			reject: []error{core.ErrOrderRejected, core.ErrTransport},
		},
		{
			name:   "bad signature",
			status: http.StatusBadRequest,
			body:   `{"code":-1022,"msg":"Signature for this request is not valid."}`,
			want:   []error{core.ErrAuthentication},
		},
		{
			name:   "timestamp drift",
			status: http.StatusBadRequest,
			body:   `{"code":-1021,"msg":"Timestamp for this request is outside of the recvWindow."}`,
			want:   []error{core.ErrTransport},
			reject: []error{core.ErrOrderRejected},
		},
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			body:   `{"code":-1003,"msg":"Too many requests."}`,
			want:   []error{core.ErrTransport},
		},
		{
			name:   "duplicate",
			status: http.StatusBadRequest,
			body:   `{"code":-2010,"msg":"Duplicate order sent."}`,
			want:   []error{core.ErrOrderRejected, core.ErrDuplicateOrder},
		},
		{
			name:   "cancel unknown order",
			status: http.StatusBadRequest,
			body:   `{"code":-2011,"msg":"Unknown order sent."}`,
			want:   []error{core.ErrOrderRejected, core.ErrOrderNotFound, core.ErrNotFound},
		},
		{
			name:   "filter failure",
			status: http.StatusBadRequest,
			body:   `{"code":-1013,"msg":"Filter failure: LOT_SIZE"}`,
			want:   []error{core.ErrOrderRejected},
			reject: []error{core.ErrNotFound, core.ErrTransport},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := parseAPIError(tc.status, []byte(tc.body))
			for _, kind := range tc.want {
				if !errors.Is(err, kind) {
					t.Fatalf("parseAPIError() = %v, want errors.Is %v", err, kind)
				}
			}
			for _, kind := range tc.reject {
				if errors.Is(err, kind) {
					t.Fatalf("parseAPIError() = %v, must not match %v", err, kind)
				}
			}
			if !strings.HasPrefix(err.Error(), "binance api error ") {
				t.Fatalf("message = %q, want api error text", err.Error())
			}
			apiErr, ok := AsAPIError(err)
			if !ok || apiErr.Status != tc.status {
				t.Fatalf("AsAPIError() = %+v/%v, want status %d", apiErr, ok, tc.status)
			}
		})
	}
}

func TestParseAPIErrorNonJSONBody(t *testing.T) {
	err := parseAPIError(http.StatusBadGateway, []byte("bad gateway"))
	if strings.Contains(err.Error(), "binance api error") {
		t.Fatalf("parseAPIError(non-json) unexpectedly returned APIError: %v", err)
	}
	if !strings.Contains(err.Error(), "http error 502") {
		t.Fatalf("parseAPIError(non-json) = %v, want http error", err)
	}
	if !errors.Is(err, core.ErrTransport) {
		t.Fatalf("parseAPIError(non-json) = %v, want ErrTransport", err)
	}
	if _, ok := AsAPIError(err); ok {
		t.Fatalf("AsAPIError(non-json) = true, want false")
	}
}

func TestKindLabels(t *testing.T) {
	cases := map[string]error{
		"authentication": parseAPIError(http.StatusUnauthorized, []byte(`{"code":-2015,"msg":"x"}`)),
		"transport":      parseAPIError(http.StatusServiceUnavailable, []byte("down")),
		"not_found":      parseAPIError(http.StatusBadRequest, []byte(`{"code":-1121,"msg":"Invalid symbol."}`)),
		"rejected":       parseAPIError(http.StatusBadRequest, []byte(`{"code":-1013,"msg":"Filter failure: PRICE_FILTER"}`)),
	}
	for want, err := range cases {
		if got := core.Kind(err); got != want {
			t.Fatalf("Kind(%v) = %q, want %q", err, got, want)
		}
	}
}

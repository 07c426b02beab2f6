package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSecurity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		isDev       bool
		checkHeader string
		wantValue   string
	}{
		{
			name:        "content_type_options",
			checkHeader: "X-Content-Type-Options",
			wantValue:   "nosniff",
		},
		{
			name:        "frame_options",
			checkHeader: "X-Frame-Options",
			wantValue:   "DENY",
		},
		{
			name:        "referrer_policy",
			checkHeader: "Referrer-Policy",
			wantValue:   "strict-origin-when-cross-origin",
		},
		{
			name:        "csp",
			checkHeader: "Content-Security-Policy",
			wantValue:   "default-src 'none'; frame-ancestors 'none'",
		},
		{
			name:        "hsts_in_production",
			checkHeader: "Strict-Transport-Security",
			wantValue:   "max-age=31536000; includeSubDomains; preload",
		},
		{
			name:        "hsts_absent_in_development",
			isDev:       true,
			checkHeader: "Strict-Transport-Security",
			wantValue:   "",
		},
		{
			name:        "cache_control",
			checkHeader: "Cache-Control",
			wantValue:   "no-store",
		},
		{
			name:        "cross_origin_opener_policy",
			checkHeader: "Cross-Origin-Opener-Policy",
			wantValue:   "same-origin",
		},
		{
			name:        "cross_origin_resource_policy",
			checkHeader: "Cross-Origin-Resource-Policy",
			wantValue:   "same-origin",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := Security(SecurityConfig{IsDevelopment: tt.isDev})(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
				}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if got := rec.Header().Get(tt.checkHeader); got != tt.wantValue {
				t.Errorf("header %s = %q, want %q", tt.checkHeader, got, tt.wantValue)
			}
		})
	}
}

func TestMaxBodySize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		maxBytes      int64
		contentLength int64
		body          string
		wantStatus    int
	}{
		{
			name:          "small_body_allowed",
			maxBytes:      1024,
			contentLength: 10,
			body:          "small body",
			wantStatus:    http.StatusOK,
		},
		{
			name:          "content_length_exceeds_limit",
			maxBytes:      10,
			contentLength: 100,
			body:          "this is a much longer body that exceeds the limit",
			wantStatus:    http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := MaxBodySize(tt.maxBytes)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.Copy(io.Discard, r.Body)
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.ContentLength = tt.contentLength
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantOK    bool
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "rfc3339",
			query:     "start_date=2026-01-01T09:00:00Z&end_date=2026-01-01T17:00:00Z",
			wantOK:    true,
			wantStart: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 1, 1, 17, 0, 0, 0, time.UTC),
		},
		{
			name:      "bare_dates",
			query:     "start_date=2026-01-01&end_date=2026-01-31",
			wantOK:    true,
			wantStart: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "missing_start",
			query:  "end_date=2026-01-31",
			wantOK: false,
		},
		{
			name:   "missing_end",
			query:  "start_date=2026-01-01",
			wantOK: false,
		},
		{
			name:   "missing_both",
			query:  "",
			wantOK: false,
		},
		{
			name:   "garbage",
			query:  "start_date=yesterday&end_date=tomorrow",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/planner/events?"+tt.query, nil)
			rec := httptest.NewRecorder()

			start, end, ok := parseDateRange(rec, req)
			if ok != tt.wantOK {
				t.Fatalf("parseDateRange ok = %v, want %v", ok, tt.wantOK)
			}

			if !tt.wantOK {
				if rec.Code != http.StatusBadRequest {
					t.Errorf("expected status 400 on failure, got %d", rec.Code)
				}
				return
			}

			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(tt.wantEnd) {
				t.Errorf("end = %v, want %v", end, tt.wantEnd)
			}
		})
	}
}

package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/xranano/AI-audio-pipeline/internal/api"
	"github.com/xranano/AI-audio-pipeline/internal/confidence"
	"github.com/xranano/AI-audio-pipeline/internal/config"
	"github.com/xranano/AI-audio-pipeline/internal/pipeline"
	"github.com/xranano/AI-audio-pipeline/internal/redact"
	"github.com/xranano/AI-audio-pipeline/pkg/logger"
)

type fakeRecords struct {
	records []*pipeline.Record
	err     error
}

func (f *fakeRecords) GetRecentRecords(_ context.Context, limit int) ([]*pipeline.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.records) {
		return f.records[:limit], nil
	}
	return f.records, nil
}

func (f *fakeRecords) GetRecordByID(_ context.Context, id int64) (*pipeline.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func sampleRecords(n int) []*pipeline.Record {
	records := make([]*pipeline.Record, n)
	for i := range records {
		records[i] = &pipeline.Record{
			ID:                  int64(i + 1),
			AudioFile:           fmt.Sprintf("call-%d.wav", i+1),
			RedactedText:        "Call [REDACTED_PERSON] back.",
			ConfidenceAvailable: true,
			ConfidenceScore:     0.9,
			ConfidenceLevel:     confidence.LevelHigh,
			Redactions: redact.Ledger{
				{Category: redact.CategoryPerson, OriginalText: "John Doe", StartOffset: 5, EndOffset: 13, Source: redact.SourceEntity},
			},
			CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		}
	}
	return records
}

func newTestServer(t *testing.T, records api.RecordReader) *httptest.Server {
	t.Helper()
	router := api.NewRouter(records, config.Default(), logger.NewNop())
	server := httptest.NewServer(router.Routes())
	t.Cleanup(server.Close)
	return server
}

func getJSON(t *testing.T, url string, wantStatus int, out any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s status = %d, want %d", url, resp.StatusCode, wantStatus)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("GET %s returned invalid JSON: %v", url, err)
		}
	}
}

func TestGetRecords(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, &fakeRecords{records: sampleRecords(3)})

	var got []*pipeline.Record
	getJSON(t, server.URL+"/api/v1/records", http.StatusOK, &got)
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	if got[0].RedactedText != "Call [REDACTED_PERSON] back." {
		t.Errorf("RedactedText = %q", got[0].RedactedText)
	}
	if len(got[0].Redactions) != 1 {
		t.Errorf("ledger not serialized: %+v", got[0].Redactions)
	}
}

func TestGetRecords_Limit(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, &fakeRecords{records: sampleRecords(10)})

	var got []*pipeline.Record
	getJSON(t, server.URL+"/api/v1/records?limit=4", http.StatusOK, &got)
	if len(got) != 4 {
		t.Errorf("got %d records with limit=4, want 4", len(got))
	}

	getJSON(t, server.URL+"/api/v1/records?limit=0", http.StatusBadRequest, nil)
	getJSON(t, server.URL+"/api/v1/records?limit=abc", http.StatusBadRequest, nil)
}

func TestGetRecordByID(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, &fakeRecords{records: sampleRecords(2)})

	var got pipeline.Record
	getJSON(t, server.URL+"/api/v1/records/2", http.StatusOK, &got)
	if got.ID != 2 {
		t.Errorf("ID = %d, want 2", got.ID)
	}

	getJSON(t, server.URL+"/api/v1/records/999", http.StatusNotFound, nil)
	getJSON(t, server.URL+"/api/v1/records/not-a-number", http.StatusBadRequest, nil)
}

func TestGetRecords_StoreFailure(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, &fakeRecords{err: errors.New("database locked")})
	getJSON(t, server.URL+"/api/v1/records", http.StatusInternalServerError, nil)
}

func TestGetHealth(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, &fakeRecords{})

	var got map[string]string
	getJSON(t, server.URL+"/api/v1/health", http.StatusOK, &got)
	if got["status"] != "ok" {
		t.Errorf("health status = %q, want ok", got["status"])
	}
}

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/voterscan/voterscan/internal/common"
	"github.com/voterscan/voterscan/internal/entity"
	"github.com/voterscan/voterscan/internal/export"
	"github.com/voterscan/voterscan/internal/llm"
	"github.com/voterscan/voterscan/internal/pipeline"
	"github.com/voterscan/voterscan/internal/store"
)

type fakeClient struct {
	reply string
	err   error
	calls int
}

func (c *fakeClient) Extract(_ context.Context, _ llm.ExtractRequest) (string, error) {
	c.calls++
	return c.reply, c.err
}

type memAttempts struct {
	rows map[uuid.UUID]entity.ExtractionAttempt
}

func (m *memAttempts) Create(_ context.Context, a *entity.ExtractionAttempt) error {
	m.rows[a.ID] = *a
	return nil
}

func (m *memAttempts) Update(_ context.Context, a *entity.ExtractionAttempt) error {
	m.rows[a.ID] = *a
	return nil
}

func (m *memAttempts) GetByID(_ context.Context, id uuid.UUID) (*entity.ExtractionAttempt, error) {
	a, ok := m.rows[id]
	if !ok {
		return nil, common.NewAppError("ARCHIVE_ERROR", id.String(), common.ErrNotFound)
	}
	return &a, nil
}

func (m *memAttempts) List(_ context.Context, _ int) ([]entity.ExtractionAttempt, error) {
	var out []entity.ExtractionAttempt
	for _, a := range m.rows {
		out = append(out, a)
	}
	return out, nil
}

type memRecords struct {
	rows []entity.ArchivedRecord
}

func (m *memRecords) Save(_ context.Context, attemptID uuid.UUID, rec entity.Record) (uuid.UUID, error) {
	id := uuid.New()
	m.rows = append(m.rows, entity.ArchivedRecord{ID: id, AttemptID: attemptID, Record: rec})
	return id, nil
}

func (m *memRecords) GetByID(_ context.Context, id uuid.UUID) (*entity.ArchivedRecord, error) {
	for _, r := range m.rows {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, common.NewAppError("ARCHIVE_ERROR", id.String(), common.ErrNotFound)
}

func (m *memRecords) List(_ context.Context, _ int) ([]entity.ArchivedRecord, error) {
	return m.rows, nil
}

func newTestServer(client llm.Client) (*Server, *store.RecordStore) {
	s := store.NewRecordStore()
	attempts := &memAttempts{rows: map[uuid.UUID]entity.ExtractionAttempt{}}
	records := &memRecords{}
	proc := pipeline.NewProcessor(nil, pipeline.Config{ModelName: "test-model", RetryDelay: 1},
		client, s, attempts, records)
	srv := New(nil, proc, s, attempts, records, export.NewService(records, nil))
	return srv, s
}

func multipartImages(t *testing.T, names []string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, name := range names {
		fw, err := mw.CreateFormFile("images", name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte{0xff, 0xd8, 0xff}); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &body, mw.FormDataContentType()
}

func TestGetRecordBeforeExtraction(t *testing.T) {
	srv, _ := newTestServer(&fakeClient{})
	h := srv.Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/v1/record", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestExtractEndpoint(t *testing.T) {
	client := &fakeClient{reply: `{"name": "ASHA RAO", "city": "Mysuru"}`}
	srv, _ := newTestServer(client)
	h := srv.Handler()

	body, contentType := multipartImages(t, []string{"card_front.jpg"})
	req := httptest.NewRequest("POST", "/v1/extract", body)
	req.Header.Set("Content-Type", contentType)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		AttemptID string        `json:"attempt_id"`
		Record    entity.Record `json:"record"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Record.Name != "ASHA RAO" {
		t.Errorf("Name = %q", resp.Record.Name)
	}
	if resp.AttemptID == "" {
		t.Error("no attempt_id in response")
	}

	// The record is now live.
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/v1/record", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("GET /v1/record status = %d", rr.Code)
	}
}

func TestExtractRejectsThreeImages(t *testing.T) {
	client := &fakeClient{}
	srv, _ := newTestServer(client)
	h := srv.Handler()

	body, contentType := multipartImages(t, []string{"a_front.jpg", "a_back.jpg", "extra.jpg"})
	req := httptest.NewRequest("POST", "/v1/extract", body)
	req.Header.Set("Content-Type", contentType)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
	if client.calls != 0 {
		t.Errorf("backend called %d times, want 0", client.calls)
	}
}

func TestExtractRejectsUnsupportedType(t *testing.T) {
	srv, _ := newTestServer(&fakeClient{})
	h := srv.Handler()

	body, contentType := multipartImages(t, []string{"scan.gif"})
	req := httptest.NewRequest("POST", "/v1/extract", body)
	req.Header.Set("Content-Type", contentType)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestEditRecord(t *testing.T) {
	srv, s := newTestServer(&fakeClient{})
	s.Seed(entity.Record{Name: "ASHA RAO"})
	h := srv.Handler()

	req := httptest.NewRequest("PATCH", "/v1/record/city", strings.NewReader(`{"value": "Mysuru"}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}

	var rec entity.Record
	if err := json.NewDecoder(rr.Body).Decode(&rec); err != nil {
		t.Fatal(err)
	}
	if rec.City != "Mysuru" || rec.Name != "ASHA RAO" {
		t.Errorf("record = %+v", rec)
	}

	t.Run("unknown field", func(t *testing.T) {
		req := httptest.NewRequest("PATCH", "/v1/record/voter_name", strings.NewReader(`{"value": "X"}`))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("bad body", func(t *testing.T) {
		req := httptest.NewRequest("PATCH", "/v1/record/city", strings.NewReader("not json"))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})
}

func TestReportEndpointText(t *testing.T) {
	srv, s := newTestServer(&fakeClient{})
	s.Seed(entity.Record{Name: "ASHA RAO"})
	h := srv.Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/v1/record/report?format=text", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	text := rr.Body.String()
	if !strings.HasPrefix(text, "Voter Details Report\n") {
		t.Errorf("report does not start with the title: %q", text)
	}
	if !strings.Contains(text, "Election Number: N/A") {
		t.Error("empty field must render as N/A")
	}
	if !strings.Contains(text, "Name: ASHA RAO") {
		t.Error("populated field missing from report")
	}
}

func TestReportEndpointNoRecord(t *testing.T) {
	srv, _ := newTestServer(&fakeClient{})
	h := srv.Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/v1/record/report", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestDumpRecordEndpoint(t *testing.T) {
	srv, s := newTestServer(&fakeClient{})
	s.Seed(entity.Record{Name: "ASHA RAO"})
	h := srv.Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/v1/record/export", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var m map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &m); err != nil {
		t.Fatalf("dump is not valid JSON: %v", err)
	}
	if len(m) != len(entity.FieldNames) {
		t.Errorf("dump has %d keys, want %d", len(m), len(entity.FieldNames))
	}
}

func TestExtractFailureLeavesRecord(t *testing.T) {
	client := &fakeClient{reply: "cannot read this card"}
	srv, s := newTestServer(client)
	s.Seed(entity.Record{Name: "ASHA RAO"})
	h := srv.Handler()

	body, contentType := multipartImages(t, []string{"card_front.jpg"})
	req := httptest.NewRequest("POST", "/v1/extract", body)
	req.Header.Set("Content-Type", contentType)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rr.Code)
	}

	held, err := s.Snapshot()
	if err != nil || held.Name != "ASHA RAO" {
		t.Errorf("held record = %+v, err = %v; failed attempt must not clobber it", held, err)
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(&fakeClient{})
	h := srv.Handler()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"record_held":false`) {
		t.Errorf("body = %s", rr.Body.String())
	}
}

package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/voterscan/voterscan/internal/common"
	"github.com/voterscan/voterscan/internal/export"
	"github.com/voterscan/voterscan/internal/report"
)

// handleGetRecord returns the live record with every edit applied so far.
func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Snapshot()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type editRequest struct {
	Value string `json:"value"`
}

// handleEditRecord rewrites one field of the live record. The field name
// comes from the path, the replacement value from the JSON body.
func (s *Server) handleEditRecord(w http.ResponseWriter, r *http.Request) {
	field := r.PathValue("field")

	var body editRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest,
			common.NewAppError("REQUEST_ERROR", "body must be {\"value\": \"...\"}", common.ErrInvalidInput))
		return
	}

	if err := s.store.ApplyEdit(field, body.Value); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	s.logger.Info("record.edit.ok", "field", field)

	rec, err := s.store.Snapshot()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleReport renders the live record as a paginated report. format=text
// returns plain text, anything else (the default) a PDF.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Snapshot()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	doc := report.Render(rec)

	var buf bytes.Buffer
	switch r.URL.Query().Get("format") {
	case "text":
		if err := report.WriteText(doc, &buf); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	default:
		if err := report.WritePDF(doc, &buf); err != nil {
			s.logger.Error("report.pdf.failed", "error", err)
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="voter-details-report.pdf"`)
	}
	_, _ = w.Write(buf.Bytes())
}

// handleDumpRecord returns the live record as canonical ordered JSON.
func (s *Server) handleDumpRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Snapshot()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	data, err := export.DumpJSON(rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

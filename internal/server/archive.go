package server

import (
	"net/http"
	"strconv"
)

func limitParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// handleListRecords returns archived records, newest first.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	recs, err := s.records.List(r.Context(), limitParam(r))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": recs})
}

// handleListAttempts returns the extraction audit trail, newest first.
func (s *Server) handleListAttempts(w http.ResponseWriter, r *http.Request) {
	attempts, err := s.attempts.List(r.Context(), limitParam(r))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"attempts": attempts})
}

// handleExportXLSX streams the archive as an XLSX workbook.
func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	data, err := s.export.ExportRecordsXLSX(r.Context(), limitParam(r))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="voter-records.xlsx"`)
	_, _ = w.Write(data)
}

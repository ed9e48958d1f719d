package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/pkordes/trip-planner/internal/export"
)

// ExportData handles GET /export.
// It returns one flat row per node of every trip. Use ?format=csv or
// ?format=yaml to change the encoding; default is JSON.
func (s *Server) ExportData(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, err, "")
		return
	}

	// Encode into a buffer so an encoder failure can still become a 500.
	var buf bytes.Buffer
	if err := export.Write(&buf, format, s.export.Export(r.Context())); err != nil {
		writeError(w, err, "")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if format != export.JSON {
		w.Header().Set("Content-Disposition", `attachment; filename="trips.`+string(format)+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

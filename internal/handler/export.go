// Package handler: export.go implements GET /export.
// Returns every location as a flat table.
// Supports content negotiation via ?format=csv (CSV) or default (JSON).
package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkordes/travel-journal/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"id", "city", "country", "type", "latitude", "longitude",
	"arrival", "departure", "rating", "notes", "quick_facts",
}

// ExportRow is one element of the JSON export.
type ExportRow struct {
	ID         string      `json:"id"`
	City       string      `json:"city"`
	Country    string      `json:"country"`
	Type       domain.Kind `json:"type"`
	Latitude   float64     `json:"latitude"`
	Longitude  float64     `json:"longitude"`
	Arrival    *string     `json:"arrival,omitempty"`
	Departure  *string     `json:"departure,omitempty"`
	Rating     *int        `json:"rating,omitempty"`
	Notes      string      `json:"notes"`
	QuickFacts []string    `json:"quickFacts"`
}

// GetExport implements GET /export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "csv" {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("format must be json or csv"))
		return
	}

	rows, err := s.export.Export(r.Context())
	if err != nil {
		s.writeInternalError(w, r, err)
		return
	}

	if format == "csv" {
		writeCSV(w, rows)
		return
	}
	out := make([]ExportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, domainRowToResponse(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes domain rows as CSV.
// Quick facts within a row are pipe-separated ("|") to keep each location on a single line.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	_ = cw.Write(csvHeaders)
	for _, r := range rows {
		_ = cw.Write(domainRowToCSVRecord(r))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="travel-journal.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// domainRowToResponse maps a domain.ExportRow to the JSON export row.
// Empty optional values become nil pointers (omitted in JSON).
func domainRowToResponse(r domain.ExportRow) ExportRow {
	row := ExportRow{
		ID:         r.ID,
		City:       r.City,
		Country:    r.Country,
		Type:       r.Kind,
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
		Notes:      r.Notes,
		QuickFacts: r.QuickFacts,
	}
	if row.QuickFacts == nil {
		row.QuickFacts = []string{}
	}
	if r.Arrival != "" {
		row.Arrival = &r.Arrival
	}
	if r.Departure != "" {
		row.Departure = &r.Departure
	}
	if n, err := strconv.Atoi(r.Rating); err == nil {
		row.Rating = &n
	}
	return row
}

// domainRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
func domainRowToCSVRecord(r domain.ExportRow) []string {
	return []string{
		r.ID,
		r.City,
		r.Country,
		string(r.Kind),
		formatFloat(r.Latitude),
		formatFloat(r.Longitude),
		r.Arrival,
		r.Departure,
		r.Rating,
		r.Notes,
		strings.Join(r.QuickFacts, "|"),
	}
}

package domain

// ExportRow is a single row in the full-data export: one row per location,
// in store order. It is a flat view of Location suitable for CSV.
//
// Optional values are empty strings (dates, rating) so CSV cells stay blank.
type ExportRow struct {
	ID        string
	City      string
	Country   string
	Kind      Kind
	Latitude  float64
	Longitude float64
	Arrival   string // "2006-01-02" formatted date, "" when absent
	Departure string // "2006-01-02" formatted date, "" when absent
	Rating    string // "1".."5", "" when absent
	Notes     string

	// QuickFacts in their original order.
	QuickFacts []string
}

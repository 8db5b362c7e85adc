package api

type SummarySection struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
	Note    string   `json:"note,omitempty"`
}

type Summary struct {
	Title           string           `json:"title"`
	Sections        []SummarySection `json:"sections"`
	Recommendations []SummarySection `json:"recommendations"`
}

type YearCount struct {
	Year       int64 `json:"year"`
	Rows       int64 `json:"rows"`
	Expected   int64 `json:"expected"`
	Consistent bool  `json:"consistent"`
}

type TableQuality struct {
	Table      string      `json:"table"`
	Consistent bool        `json:"consistent"`
	Years      []YearCount `json:"years"`
}

type QualityReport struct {
	Consistent bool           `json:"consistent"`
	Tables     []TableQuality `json:"tables"`
}

package domain

// Summary is the static narrative of the summary section
type Summary struct {
	Title           string
	Sections        []SummarySection
	Recommendations []SummarySection
}

type SummarySection struct {
	Title   string
	Bullets []string
	Note    string
}

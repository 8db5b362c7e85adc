package domain

// YearCount is the number of observations recorded for one year
type YearCount struct {
	Year       int64
	Rows       int64
	Expected   int64
	Consistent bool
}

type TableQuality struct {
	Table      string
	Years      []YearCount
	Consistent bool
}

// QualityReport is informational; inconsistencies are reported, never enforced
type QualityReport struct {
	Tables     []TableQuality
	Consistent bool
}

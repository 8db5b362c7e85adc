package api

type Param struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Default     string `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

type Report struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Display string   `json:"display"`
	Columns []string `json:"columns"`
	Params  []Param  `json:"params,omitempty"`
}

type Section struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Reports     []Report `json:"reports"`
}

type Column struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

type Result struct {
	ExecutionID string   `json:"execution_id"`
	Section     string   `json:"section"`
	Report      string   `json:"report"`
	Display     string   `json:"display"`
	Columns     []Column `json:"columns"`
	Rows        [][]any  `json:"rows"`
	DurationMs  int64    `json:"duration_ms"`
}

type Error struct {
	Error string `json:"error"`
}

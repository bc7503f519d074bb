package models

// JobFilter selects a page of generations for the list view.
type JobFilter struct {
	Status   string `json:"status"` // StatusFilterAll or a GenerationStatus
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	Invert   bool   `json:"invert"` // oldest first
}

// JobPage is one page of generations. Page is clamped to the last page.
type JobPage struct {
	Jobs     []GenerationJob `json:"jobs"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
	Total    int64           `json:"total"`
}

// Normalize clamps the page size into range and resolves an empty status.
func (f JobFilter) Normalize() JobFilter {
	if f.Status == "" {
		f.Status = StatusFilterAll
	}
	if f.PageSize == 0 {
		f.PageSize = 10
	}
	f.PageSize = clampInt(f.PageSize, MinPageSize, MaxPageSize)
	if f.Page < 0 {
		f.Page = 0
	}
	return f
}

// LastPage returns the index of the last page for total rows.
func (f JobFilter) LastPage(total int64) int {
	if total <= 0 || f.PageSize <= 0 {
		return 0
	}
	return int((total - 1) / int64(f.PageSize))
}

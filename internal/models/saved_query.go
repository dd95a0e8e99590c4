package models

import "time"

// SavedQuery is a named console statement, optionally filed under a group.
type SavedQuery struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Query        string    `json:"query,omitempty"`
	GroupName    *string   `json:"groupName,omitempty"`
	DisplayOrder int       `json:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SameGroup reports whether q and other are filed under the same group.
// Ungrouped queries form their own group.
func (q SavedQuery) SameGroup(other SavedQuery) bool {
	return StringValue(q.GroupName) == StringValue(other.GroupName)
}

// QueryResult is the tabular outcome of a console statement.
type QueryResult struct {
	Columns  []string                 `json:"columns"`
	Rows     []map[string]interface{} `json:"rows"`
	RowCount int64                    `json:"rowCount"`
	Command  string                   `json:"command,omitempty"`
}

// ImportResult summarizes a CSV import.
type ImportResult struct {
	Table    string `json:"table"`
	Inserted int    `json:"insertedCount"`
	Failed   int    `json:"failedCount"`
	Skipped  int    `json:"skippedCount"`
	Total    int    `json:"totalRows"`
}

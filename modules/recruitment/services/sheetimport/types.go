package sheetimport

import (
	"github.com/google/uuid"

	"github.com/talentgrid-hq/talentgrid/modules/recruitment/domain/aggregates/employee"
	"github.com/talentgrid-hq/talentgrid/modules/recruitment/domain/aggregates/placement"
)

// Cell is one sheet cell as delivered by the upload collaborator: a
// string, a float64 (numbers and date serials), or nil.
type Cell = any

// Kind selects which sheet layout is being ingested.
type Kind int

const (
	Personal Kind = iota
	Team
)

func (k Kind) String() string {
	if k == Team {
		return "team"
	}
	return "personal"
}

// Request is the flat sheet shape handed to the engine. No row is tagged;
// classifying header, summary, placement and marker rows is the engine's
// job.
type Request struct {
	Headers []string `json:"headers"`
	Rows    [][]Cell `json:"rows"`
	// TeamScope restricts lead resolution to one team (team sheets only).
	TeamScope string `json:"teamScope,omitempty"`
	// Source names the uploaded file for the batch record.
	Source string `json:"source,omitempty"`
}

// RowError is a recoverable, row-level problem. The row is dropped and the
// import continues.
type RowError struct {
	RowIndex int    `json:"rowIndex"`
	Message  string `json:"message"`
}

// Report carries diagnostic counters for team imports. It never drives
// control flow.
type Report struct {
	SummaryRowsChecked    int `json:"summaryRowsChecked"`
	SummaryRowsAccepted   int `json:"summaryRowsAccepted"`
	PlacementRowsChecked  int `json:"placementRowsChecked"`
	PlacementRowsAccepted int `json:"placementRowsAccepted"`
	RejectedTeamMismatch  int `json:"rejectedTeamMismatch"`
	RejectedUnresolved    int `json:"rejectedUnresolved"`
}

// Row is one prepared placement attributed to a resolved entity, ready for
// the insert/update partitioning.
type Row struct {
	Entity employee.Employee
	Fields placement.Fields
	// SourceRow indexes into Request.Rows; -1 for synthetic placeholders.
	SourceRow   int
	Placeholder bool
}

// Result is the engine output consumed by the persistence stage.
type Result struct {
	Rows     []Row
	Errors   []RowError
	Report   Report
	Entities map[uuid.UUID]employee.Employee
}

// Package sheetimport reconciles uploaded placement sheets against known
// employees and leads. A sheet is not a clean fixed-schema table: summary
// blocks interleave with variable-length placement blocks, header rows
// recur mid-file, and identifying columns vary by alias. The engine
// classifies every row, resolves each block to an entity, merges partial
// summary data, and deduplicates on the plc id business key, producing
// prepared rows for the persistence stage.
package sheetimport

import (
	"github.com/sirupsen/logrus"

	"github.com/talentgrid-hq/talentgrid/modules/recruitment/domain/aggregates/employee"
	"github.com/talentgrid-hq/talentgrid/pkg/serrors"
)

var errMalformedRequest = serrors.NewError(
	"IMPORT_BAD_REQUEST",
	"headers and rows must both be present",
	"",
)

// Run executes the full scan for one import call. The entity index and
// all scanner state are scoped to this invocation; concurrent imports
// never share mutable state. Fatal errors (malformed shape, header
// mismatch, team-sheet date failures) abort before any row is returned.
func Run(kind Kind, req Request, staff []employee.Employee, log *logrus.Entry) (*Result, error) {
	if req.Headers == nil || req.Rows == nil {
		return nil, errMalformedRequest
	}

	headerIx, err := validateHeaders(kind, req.Headers)
	if err != nil {
		return nil, err
	}

	index := newEntityIndex(staff, kind == Team)
	s := newScanner(kind, req.TeamScope, index, log)
	s.setInitialHeader(headerIx)

	if err := s.scan(req.Rows); err != nil {
		return nil, err
	}

	rows := dedupeRows(s.finalize(), log)
	return &Result{
		Rows:     rows,
		Errors:   s.errors,
		Report:   s.report,
		Entities: s.entities,
	}, nil
}

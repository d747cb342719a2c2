package sheetimport

import (
	"strings"

	"github.com/talentgrid-hq/talentgrid/pkg/serrors"
)

type blockKind int

const (
	summaryBlock blockKind = iota
	placementBlock
)

type columnSpec struct {
	canonical string
	aliases   []string
	required  bool
}

// sheetSchema is the declarative column table for one (sheet kind, block
// kind) pair. Both the validator and the row-value accessor consult it, so
// alias handling lives in exactly one place.
type sheetSchema struct {
	kind    Kind
	block   blockKind
	columns []columnSpec
	// lookup maps every normalized alias and canonical name to the
	// canonical name.
	lookup map[string]string
}

func newSchema(kind Kind, block blockKind, columns []columnSpec) *sheetSchema {
	s := &sheetSchema{kind: kind, block: block, columns: columns, lookup: map[string]string{}}
	for _, col := range columns {
		s.lookup[normalizeHeader(col.canonical)] = col.canonical
		for _, alias := range col.aliases {
			s.lookup[normalizeHeader(alias)] = col.canonical
		}
	}
	return s
}

var personalSummarySchema = newSchema(Personal, summaryBlock, []columnSpec{
	{canonical: "recruiter name", aliases: []string{"recruiter", "lead name", "lead"}, required: true},
	{canonical: "vb code", aliases: []string{"code", "emp code"}},
	{canonical: "yearly target", required: true},
	{canonical: "achieved", required: true},
	{canonical: "achievement %", aliases: []string{"achievement%", "ach %", "achievement percent"}, required: true},
	{canonical: "total revenue", aliases: []string{"total revenue (usd)", "total revenue generated", "revenue generated"}, required: true},
	{canonical: "qualified for", aliases: []string{"qualification", "tier"}},
	{canonical: "total incentive", required: true},
	{canonical: "incentive paid", aliases: []string{"total incentive paid"}, required: true},
})

var teamSummarySchema = newSchema(Team, summaryBlock, []columnSpec{
	{canonical: "team", required: true},
	{canonical: "vb code", aliases: []string{"code"}},
	{canonical: "lead name", aliases: []string{"lead"}, required: true},
	{canonical: "yearly revenue target", aliases: []string{"revenue target"}, required: true},
	{canonical: "achieved", aliases: []string{"revenue achieved"}},
	{canonical: "achievement %", aliases: []string{"achievement%", "ach %", "achievement percent"}},
	{canonical: "total revenue", aliases: []string{"total revenue (usd)", "total revenue generated"}},
	{canonical: "qualified for", aliases: []string{"qualification", "tier"}},
	{canonical: "total incentive"},
	{canonical: "incentive paid", aliases: []string{"total incentive paid"}},
})

func placementColumns(kind Kind) []columnSpec {
	cols := []columnSpec{
		{canonical: "candidate name", aliases: []string{"candidate"}, required: true},
		{canonical: "year", aliases: []string{"placement year"}},
		{canonical: "doj", aliases: []string{"date of joining", "join date"}, required: true},
		{canonical: "quit date", aliases: []string{"exit date", "dol"}},
		{canonical: "client", aliases: []string{"client name"}, required: true},
		{canonical: "plc id", required: true},
		{canonical: "type", aliases: []string{"placement type"}},
		{canonical: "billing status", aliases: []string{"billed"}},
		{canonical: "collection status", aliases: []string{"collected"}},
		{canonical: "billed hours", aliases: []string{"hours billed"}},
		{canonical: "revenue", aliases: []string{"revenue (usd)"}},
		{canonical: "incentive", aliases: []string{"incentive amount"}},
		{canonical: "incentive paid"},
		{canonical: "vb code", aliases: []string{"code"}},
	}
	if kind == Team {
		cols = append(cols,
			columnSpec{canonical: "lead name", aliases: []string{"lead"}},
			columnSpec{canonical: "split with", aliases: []string{"split", "lead split"}},
		)
	} else {
		cols = append(cols, columnSpec{canonical: "recruiter name", aliases: []string{"recruiter"}})
	}
	return cols
}

var personalPlacementSchema = newSchema(Personal, placementBlock, placementColumns(Personal))
var teamPlacementSchema = newSchema(Team, placementBlock, placementColumns(Team))

func summarySchemaFor(kind Kind) *sheetSchema {
	if kind == Team {
		return teamSummarySchema
	}
	return personalSummarySchema
}

func placementSchemaFor(kind Kind) *sheetSchema {
	if kind == Team {
		return teamPlacementSchema
	}
	return personalPlacementSchema
}

// headerIndex maps canonical column names to column positions for the
// header row currently in effect.
type headerIndex struct {
	schema *sheetSchema
	cols   map[string]int
}

// index resolves every recognizable cell of a header row. The second
// return is how many cells matched this schema at all.
func (s *sheetSchema) index(cells []string) (*headerIndex, int) {
	ix := &headerIndex{schema: s, cols: map[string]int{}}
	matched := 0
	for i, cell := range cells {
		canonical, ok := s.lookup[normalizeHeader(cell)]
		if !ok {
			continue
		}
		matched++
		if _, taken := ix.cols[canonical]; !taken {
			ix.cols[canonical] = i
		}
	}
	return ix, matched
}

func (s *sheetSchema) missing(cells []string) []string {
	ix, _ := s.index(cells)
	var out []string
	for _, col := range s.columns {
		if !col.required {
			continue
		}
		if _, ok := ix.cols[col.canonical]; !ok {
			out = append(out, col.canonical)
		}
	}
	return out
}

// match reports whether a row is a header row for this schema: every
// required column present.
func (s *sheetSchema) match(cells []string) (*headerIndex, bool) {
	ix, _ := s.index(cells)
	for _, col := range s.columns {
		if col.required {
			if _, ok := ix.cols[col.canonical]; !ok {
				return nil, false
			}
		}
	}
	return ix, true
}

func (ix *headerIndex) has(canonical string) bool {
	_, ok := ix.cols[canonical]
	return ok
}

func (ix *headerIndex) cell(row []Cell, canonical string) Cell {
	pos, ok := ix.cols[canonical]
	if !ok || pos >= len(row) {
		return nil
	}
	return row[pos]
}

var (
	errHeadersInvalid = serrors.NewError("IMPORT_HEADER_INVALID", "header row does not match any known sheet layout", "")
	errLegacyColumns  = serrors.NewError(
		"IMPORT_LEGACY_COLUMNS",
		"legacy columns 'yearly placement target'/'placement done' are no longer accepted",
		"rename them to 'yearly target' and 'achieved'",
	)
)

var legacySummaryColumns = []string{"yearly placement target", "placement done"}

// validateHeaders classifies the sheet's leading header row and returns
// the matching schema index. Failure aborts the import before any
// persistence, naming every missing column.
func validateHeaders(kind Kind, headers []string) (*headerIndex, error) {
	if err := rejectLegacyColumns(kind, headers); err != nil {
		return nil, err
	}

	summary := summarySchemaFor(kind)
	if ix, ok := summary.match(headers); ok {
		return ix, nil
	}
	plc := placementSchemaFor(kind)
	if ix, ok := plc.match(headers); ok {
		return ix, nil
	}

	// Report against whichever schema the row resembles most.
	_, summaryHits := summary.index(headers)
	_, plcHits := plc.index(headers)
	closest := summary
	if plcHits > summaryHits {
		closest = plc
	}
	missing := closest.missing(headers)
	return nil, errHeadersInvalid.WithMessagef(
		"header row does not match any known %s sheet layout; missing columns: %s",
		kind, strings.Join(missing, ", "),
	)
}

// rejectLegacyColumns forces callers to migrate personal summary sheets
// off the retired target/done column pair instead of silently accepting
// ambiguous data.
func rejectLegacyColumns(kind Kind, headers []string) error {
	if kind != Personal {
		return nil
	}
	for _, cell := range headers {
		normalized := normalizeHeader(cell)
		for _, legacy := range legacySummaryColumns {
			if normalized == legacy {
				return errLegacyColumns
			}
		}
	}
	return nil
}

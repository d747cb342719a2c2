package sheetimport

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/talentgrid-hq/talentgrid/modules/recruitment/domain/aggregates/employee"
	"github.com/talentgrid-hq/talentgrid/modules/recruitment/domain/aggregates/placement"
	"github.com/talentgrid-hq/talentgrid/pkg/serrors"
)

type scanState int

const (
	stateSeekingBlock scanState = iota
	stateSeekingEntity
	stateInBlock
)

// blockMarkerToken starts a new block when it appears alone in the first
// cell of a row.
const blockMarkerToken = "team"

// lookAheadRows bounds the scan for a resolvable summary row after a
// block marker.
const lookAheadRows = 3

var errJoinDateInvalid = serrors.NewError(
	"IMPORT_BAD_JOIN_DATE",
	"placement row carries an unparseable join date",
	"",
)

type resolveStatus int

const (
	resolveOK resolveStatus = iota
	resolveMiss
	resolveTeamMismatch
)

// scanner is the stateful row-by-row pass over the sheet. Later rows
// depend on the block and entity context built by earlier rows, so
// processing is strictly sequential and every field lives here rather
// than in ambient closures.
type scanner struct {
	kind      Kind
	teamScope string
	index     *entityIndex
	log       *logrus.Entry

	summaryIx   *headerIndex
	placementIx *headerIndex

	state scanState
	// current is the entity owning the active block.
	current employee.Employee
	// snapshotDone marks that the active block already stamped its summary
	// onto a placement row; only the first row of a block carries it.
	snapshotDone bool

	summaries    map[uuid.UUID]placement.Summary
	summaryOrder []uuid.UUID
	entities     map[uuid.UUID]employee.Employee
	// keyRows tracks, per entity, which emitted row owns each business key
	// so an in-block repeat can replace the earlier occurrence.
	keyRows     map[uuid.UUID]map[string]int
	hasRealRows map[uuid.UUID]bool

	rows    []Row
	removed []bool
	errors  []RowError
	report  Report
}

func newScanner(kind Kind, teamScope string, index *entityIndex, log *logrus.Entry) *scanner {
	return &scanner{
		kind:        kind,
		teamScope:   teamScope,
		index:       index,
		log:         log,
		state:       stateSeekingBlock,
		summaries:   map[uuid.UUID]placement.Summary{},
		entities:    map[uuid.UUID]employee.Employee{},
		keyRows:     map[uuid.UUID]map[string]int{},
		hasRealRows: map[uuid.UUID]bool{},
	}
}

// setInitialHeader installs the index built from the request's leading
// header row.
func (s *scanner) setInitialHeader(ix *headerIndex) {
	if ix.schema.block == summaryBlock {
		s.summaryIx = ix
	} else {
		s.placementIx = ix
	}
}

func (s *scanner) scan(rows [][]Cell) error {
	for i, row := range rows {
		if err := s.processRow(i, row, rows); err != nil {
			return err
		}
	}
	return nil
}

func (s *scanner) processRow(i int, row []Cell, all [][]Cell) error {
	if isBlankRow(row) {
		return nil
	}
	cells := stringCells(row)

	// Header rows replace the active column mapping mid-sheet and are
	// never emitted as data.
	if ix, ok := summarySchemaFor(s.kind).match(cells); ok {
		s.summaryIx = ix
		return nil
	}
	if ix, ok := placementSchemaFor(s.kind).match(cells); ok {
		s.placementIx = ix
		return nil
	}
	if s.isHeaderNoise(cells) {
		s.log.WithField("row", i).Debug("skipping repeated header fragment")
		return nil
	}

	if s.isBlockMarker(row) {
		s.startBlock()
		s.lookAheadForEntity(i, all)
		return nil
	}

	code, name := s.personCells(row)
	candidate := s.candidateCell(row)

	if candidate == "" && (code != "" || name != "") {
		s.consumeSummaryRow(i, row, code, name)
		return nil
	}
	if candidate != "" {
		return s.consumePlacementRow(i, row, candidate, code, name)
	}
	return nil
}

// isBlockMarker detects rows starting a new person/lead block: the
// literal marker token, or a known team name leading a row wide enough to
// be a summary row.
func (s *scanner) isBlockMarker(row []Cell) bool {
	first := parseString(row[0])
	if strings.EqualFold(first, blockMarkerToken) {
		return true
	}
	return s.index.isKnownTeam(first) && countNonEmpty(row) >= 3
}

func (s *scanner) startBlock() {
	s.state = stateSeekingEntity
	s.current = employee.Employee{}
	s.snapshotDone = false
}

// lookAheadForEntity scans from the marker row forward for the first row
// carrying a business code or person name with summary fields, resolving
// the block's entity before any of its placement rows are processed. The
// marker row itself often is that row on team sheets.
func (s *scanner) lookAheadForEntity(i int, all [][]Cell) {
	if s.summaryIx == nil {
		return
	}
	for j := i; j <= i+lookAheadRows && j < len(all); j++ {
		row := all[j]
		if isBlankRow(row) {
			continue
		}
		code, name := s.personCells(row)
		if code == "" && name == "" {
			continue
		}
		// A team name or header fragment in the candidate column is layout
		// noise, not a placement row.
		if cand := s.candidateCell(row); cand != "" &&
			!s.index.isKnownTeam(cand) && !s.isKnownHeaderText(cand) {
			// Placement rows end the search; the block has no summary.
			return
		}
		ent, status := s.resolveEntity(code, name)
		if status != resolveOK {
			continue
		}
		s.adoptEntity(ent)
		s.mergeSummary(ent, s.extractSummary(row))
		if j == i {
			// The marker row doubled as the summary row and will not be
			// revisited.
			s.report.SummaryRowsChecked++
			s.report.SummaryRowsAccepted++
		}
		return
	}
}

func (s *scanner) consumeSummaryRow(i int, row []Cell, code, name string) {
	s.report.SummaryRowsChecked++
	if s.summaryIx == nil {
		return
	}
	if s.index.isKnownTeam(name) {
		// A team name in the person cell is noise, not a person.
		s.log.WithFields(logrus.Fields{"row": i, "name": name}).
			Warn("summary row names a team where a person was expected")
		return
	}

	ent, status := s.resolveEntity(code, name)
	switch status {
	case resolveTeamMismatch:
		s.report.RejectedTeamMismatch++
		s.log.WithFields(logrus.Fields{"row": i, "name": name}).
			Warn("summary row resolves outside the requested team scope")
		return
	case resolveMiss:
		s.report.RejectedUnresolved++
		s.log.WithFields(logrus.Fields{"row": i, "code": code, "name": name}).
			Warn("summary row does not resolve to a known person")
		return
	}

	// A summary row for a different person implicitly starts that
	// person's block.
	if s.state != stateInBlock || s.current.ID() != ent.ID() {
		s.startBlock()
	}
	s.adoptEntity(ent)
	s.mergeSummary(ent, s.extractSummary(row))
	s.report.SummaryRowsAccepted++
}

func (s *scanner) consumePlacementRow(i int, row []Cell, candidate, code, name string) error {
	s.report.PlacementRowsChecked++

	if s.index.isKnownTeam(candidate) || s.isKnownHeaderText(candidate) {
		return nil
	}

	if s.state != stateInBlock {
		// Fall back to whatever identifying cells this exact row carries.
		ent, status := s.resolveEntity(code, name)
		if status != resolveOK {
			if status == resolveTeamMismatch {
				s.report.RejectedTeamMismatch++
			} else {
				s.report.RejectedUnresolved++
			}
			s.errors = append(s.errors, RowError{RowIndex: i, Message: "row does not resolve to a known person"})
			return nil
		}
		s.adoptEntity(ent)
	}

	doj := parseDate(s.placementIx.cell(row, "doj"))
	if doj == nil {
		if s.kind == Team {
			return errJoinDateInvalid.WithMessagef("row %d: unparseable join date for candidate %q", i, candidate)
		}
		s.errors = append(s.errors, RowError{RowIndex: i, Message: "unparseable join date"})
		return nil
	}

	fields := s.extractPlacement(row, candidate, *doj)
	entID := s.current.ID()

	normKey := placement.NormalizeKey(fields.PlcKey)
	if !placement.IsSentinelKey(normKey) {
		if prev, ok := s.keyRows[entID][normKey]; ok {
			// Repeated key inside one block: the later occurrence wins, but
			// it inherits the summary snapshot stamped on the displaced row.
			s.removed[prev] = true
			if fields.Summary.IsZero() {
				fields.Summary = s.rows[prev].Fields.Summary
			}
			s.errors = append(s.errors, RowError{
				RowIndex: s.rows[prev].SourceRow,
				Message:  "duplicate plc id within block; later row kept",
			})
			s.log.WithFields(logrus.Fields{"row": i, "plc_id": fields.PlcKey}).
				Warn("duplicate plc id within block")
		}
	}

	if !s.snapshotDone {
		fields.Summary = s.summaries[entID]
		s.snapshotDone = true
	}

	s.rows = append(s.rows, Row{Entity: s.current, Fields: fields, SourceRow: i})
	s.removed = append(s.removed, false)
	if !placement.IsSentinelKey(normKey) {
		if s.keyRows[entID] == nil {
			s.keyRows[entID] = map[string]int{}
		}
		s.keyRows[entID][normKey] = len(s.rows) - 1
	}
	s.hasRealRows[entID] = true
	s.report.PlacementRowsAccepted++
	return nil
}

func (s *scanner) adoptEntity(ent employee.Employee) {
	if s.current.IsZero() || s.current.ID() != ent.ID() {
		s.snapshotDone = false
	}
	s.current = ent
	s.state = stateInBlock
	s.entities[ent.ID()] = ent
}

func (s *scanner) resolveEntity(code, name string) (employee.Employee, resolveStatus) {
	if code == "" && name == "" {
		return employee.Employee{}, resolveMiss
	}
	ent, ok := s.index.resolve(code, name, s.teamScope)
	if ok {
		return ent, resolveOK
	}
	if s.teamScope != "" {
		// Distinguish a genuine miss from a lead outside the scope.
		if _, unscoped := s.index.resolve(code, name, ""); unscoped {
			return employee.Employee{}, resolveTeamMismatch
		}
	}
	return employee.Employee{}, resolveMiss
}

func (s *scanner) mergeSummary(ent employee.Employee, in placement.Summary) {
	id := ent.ID()
	if _, ok := s.summaries[id]; !ok {
		s.summaryOrder = append(s.summaryOrder, id)
	}
	s.summaries[id] = s.summaries[id].Merge(in)
}

// finalize emits one synthetic placeholder row per summary-only entity so
// the merged metrics survive even without placements, then drops rows
// displaced by in-block deduplication.
func (s *scanner) finalize() []Row {
	for _, id := range s.summaryOrder {
		if s.hasRealRows[id] {
			continue
		}
		s.rows = append(s.rows, Row{
			Entity:      s.entities[id],
			SourceRow:   -1,
			Placeholder: true,
			Fields: placement.Fields{
				CandidateName: placement.PlaceholderCandidate,
				JoinDate:      placement.PlaceholderJoinDate,
				PlcKey:        placement.PlaceholderKey(id),
				Summary:       s.summaries[id],
			},
		})
		s.removed = append(s.removed, false)
	}

	out := make([]Row, 0, len(s.rows))
	for i, row := range s.rows {
		if !s.removed[i] {
			out = append(out, row)
		}
	}
	return out
}

func (s *scanner) personCells(row []Cell) (code, name string) {
	if s.summaryIx != nil {
		code = parseString(s.summaryIx.cell(row, "vb code"))
		name = parseString(s.summaryIx.cell(row, s.personColumn()))
	}
	if code == "" && name == "" && s.placementIx != nil {
		code = parseString(s.placementIx.cell(row, "vb code"))
		name = parseString(s.placementIx.cell(row, s.personColumn()))
	}
	return code, name
}

func (s *scanner) personColumn() string {
	if s.kind == Team {
		return "lead name"
	}
	return "recruiter name"
}

func (s *scanner) candidateCell(row []Cell) string {
	if s.placementIx == nil {
		return ""
	}
	return parseString(s.placementIx.cell(row, "candidate name"))
}

func (s *scanner) targetColumn() string {
	if s.kind == Team {
		return "yearly revenue target"
	}
	return "yearly target"
}

func (s *scanner) extractSummary(row []Cell) placement.Summary {
	ix := s.summaryIx
	return placement.Summary{
		Target:         capAmount(parseNumber(ix.cell(row, s.targetColumn()))),
		Achieved:       capAmount(parseNumber(ix.cell(row, "achieved"))),
		AchievementPct: sanitizePercent(ix.cell(row, "achievement %")),
		TotalRevenue:   capAmount(parseNumber(ix.cell(row, "total revenue"))),
		QualifiedFor:   strPtr(parseString(ix.cell(row, "qualified for"))),
		TotalIncentive: capAmount(parseNumber(ix.cell(row, "total incentive"))),
		IncentivePaid:  capAmount(parseNumber(ix.cell(row, "incentive paid"))),
	}
}

func (s *scanner) extractPlacement(row []Cell, candidate string, doj time.Time) placement.Fields {
	ix := s.placementIx
	f := placement.Fields{
		CandidateName: candidate,
		Year:          parseYear(ix.cell(row, "year")),
		JoinDate:      doj,
		QuitDate:      parseDate(ix.cell(row, "quit date")),
		Client:        parseString(ix.cell(row, "client")),
		PlcKey:        parseString(ix.cell(row, "plc id")),
		PlacementType: parseString(ix.cell(row, "type")),
		BillingStatus: parseString(ix.cell(row, "billing status")),
		CollectStatus: parseString(ix.cell(row, "collection status")),
		BilledHours:   capAmount(parseNumber(ix.cell(row, "billed hours"))),
		Revenue:       capAmount(parseNumber(ix.cell(row, "revenue"))),
		Incentive:     capAmount(parseNumber(ix.cell(row, "incentive"))),
		IncentivePaid: capAmount(parseNumber(ix.cell(row, "incentive paid"))),
	}
	if s.kind == Team {
		f.SplitWith = parseString(ix.cell(row, "split with"))
		f.LeadName = s.current.DisplayName()
	}
	return f
}

// isHeaderNoise flags stray rows repeating header text in more than one
// cell without forming a full header.
func (s *scanner) isHeaderNoise(cells []string) bool {
	hits := 0
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		if s.isKnownHeaderText(cell) {
			hits++
		}
	}
	return hits >= 2
}

func (s *scanner) isKnownHeaderText(text string) bool {
	normalized := normalizeHeader(text)
	if _, ok := summarySchemaFor(s.kind).lookup[normalized]; ok {
		return true
	}
	_, ok := placementSchemaFor(s.kind).lookup[normalized]
	return ok
}

func stringCells(row []Cell) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = parseString(cell)
	}
	return out
}

func isBlankRow(row []Cell) bool {
	return countNonEmpty(row) == 0
}

func countNonEmpty(row []Cell) int {
	n := 0
	for _, cell := range row {
		if parseString(cell) != "" {
			n++
		}
	}
	return n
}

func strPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(s)
	return &trimmed
}

package sheetimport

import (
	"strings"

	"github.com/talentgrid-hq/talentgrid/modules/recruitment/domain/aggregates/employee"
)

// entityIndex is the per-import lookup over active employees/leads. Built
// once so the scanner never re-queries storage row by row, and scoped to a
// single import call so concurrent imports cannot observe each other.
type entityIndex struct {
	byCode map[string]employee.Employee
	byName map[string]employee.Employee
	byTeam map[string]employee.Employee
	teams  map[string]struct{}
}

func newEntityIndex(items []employee.Employee, leadsOnly bool) *entityIndex {
	ix := &entityIndex{
		byCode: map[string]employee.Employee{},
		byName: map[string]employee.Employee{},
		byTeam: map[string]employee.Employee{},
		teams:  map[string]struct{}{},
	}
	for _, e := range items {
		if !e.Active() {
			continue
		}
		if team := strings.ToLower(e.TeamName()); team != "" {
			ix.teams[team] = struct{}{}
			if e.IsLead() {
				ix.byTeam[team] = e
			}
		}
		if leadsOnly && !e.IsLead() {
			continue
		}
		if code := strings.ToLower(e.Code()); code != "" {
			ix.byCode[code] = e
		}
		if name := strings.ToLower(e.DisplayName()); name != "" {
			ix.byName[name] = e
		}
	}
	return ix
}

// resolve maps a (code, name) pair to a known entity. Exact code match
// wins over exact name match; a miss is not an error. An optional team
// scope filters both lookups so a name collision across teams cannot
// resolve to the wrong lead.
func (ix *entityIndex) resolve(code, name, teamScope string) (employee.Employee, bool) {
	scope := strings.ToLower(strings.TrimSpace(teamScope))
	if e, ok := ix.byCode[strings.ToLower(strings.TrimSpace(code))]; ok && inScope(e, scope) {
		return e, true
	}
	if e, ok := ix.byName[strings.ToLower(strings.TrimSpace(name))]; ok && inScope(e, scope) {
		return e, true
	}
	return employee.Employee{}, false
}

// leadByTeam maps a literal team name to its lead; used for block-marker
// detection on team sheets.
func (ix *entityIndex) leadByTeam(team string) (employee.Employee, bool) {
	e, ok := ix.byTeam[strings.ToLower(strings.TrimSpace(team))]
	return e, ok
}

// isKnownTeam reports whether the text is a team name; such text in a
// person cell marks a noise row, not a person.
func (ix *entityIndex) isKnownTeam(text string) bool {
	_, ok := ix.teams[strings.ToLower(strings.TrimSpace(text))]
	return ok
}

func inScope(e employee.Employee, scope string) bool {
	if scope == "" {
		return true
	}
	return strings.ToLower(e.TeamName()) == scope
}

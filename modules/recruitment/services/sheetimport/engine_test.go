package sheetimport

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/talentgrid-hq/talentgrid/modules/recruitment/domain/aggregates/employee"
	"github.com/talentgrid-hq/talentgrid/modules/recruitment/domain/aggregates/placement"
	"github.com/talentgrid-hq/talentgrid/pkg/serrors"
)

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func teamStaff() []employee.Employee {
	return []employee.Employee{
		testEmployee("VB1", "Asha Rao", employee.LevelL3, "Vantage", true),
		testEmployee("VB3", "Vikram Singh", employee.LevelL4, "Zenith", true),
	}
}

// teamPlacementRow builds a 16-cell data row matching teamPlacementHeaders.
func teamPlacementRow(candidate string, doj Cell, client, plcID string) []Cell {
	return []Cell{candidate, 2024.0, doj, nil, client, plcID, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil}
}

func headerCells(headers []string) []Cell {
	out := make([]Cell, len(headers))
	for i, h := range headers {
		out[i] = h
	}
	return out
}

func TestRunTeamDuplicateKeyKeepsLaterRowWithSummary(t *testing.T) {
	req := Request{
		Headers: teamSummaryHeaders(),
		Rows: [][]Cell{
			{"Vantage", "VB1", "Asha Rao", 500000.0, nil, nil, nil, nil, nil, nil},
			headerCells(teamPlacementHeaders()),
			teamPlacementRow("Cand A", "2024-03-15", "Acme Corp", "P1"),
			teamPlacementRow("Cand B", "2024-04-01", "Globex", "P1"),
		},
	}

	result, err := Run(Team, req, teamStaff(), testLog())
	require.NoError(t, err)

	require.Len(t, result.Rows, 1)
	row := result.Rows[0]
	require.Equal(t, "Cand B", row.Fields.CandidateName)
	require.Equal(t, "Asha Rao", row.Entity.DisplayName())
	require.NotNil(t, row.Fields.Summary.Target)
	require.InDelta(t, 500000.0, *row.Fields.Summary.Target, 0.001)

	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0].Message, "duplicate plc id")

	require.Equal(t, 1, result.Report.SummaryRowsChecked)
	require.Equal(t, 1, result.Report.SummaryRowsAccepted)
	require.Equal(t, 2, result.Report.PlacementRowsChecked)
	require.Equal(t, 2, result.Report.PlacementRowsAccepted)
}

func TestRunSentinelKeysRetained(t *testing.T) {
	staff := []employee.Employee{
		testEmployee("VB2", "Meera Iyer", employee.LevelL2, "Vantage", true),
	}
	headers := []string{
		"Candidate Name", "Year", "DOJ", "Quit Date", "Client", "PLC ID",
		"Type", "Billing Status", "Collection Status", "Billed Hours",
		"Revenue", "Incentive", "Incentive Paid", "VB Code", "Recruiter Name",
	}
	personalRow := func(candidate, plcID string) []Cell {
		return []Cell{candidate, 2024.0, "2024-05-01", nil, "Initech", plcID, nil, nil, nil, nil, nil, nil, nil, nil, "Meera Iyer"}
	}
	req := Request{
		Headers: headers,
		Rows: [][]Cell{
			personalRow("C1", "NA"),
			personalRow("C2", "NA"),
			personalRow("C3", "na"),
			personalRow("C4", ""),
			personalRow("C5", "0"),
		},
	}

	result, err := Run(Personal, req, staff, testLog())
	require.NoError(t, err)
	require.Len(t, result.Rows, 5)
	require.Empty(t, result.Errors)
}

func TestRunPersonalBadJoinDateDropsRow(t *testing.T) {
	staff := []employee.Employee{
		testEmployee("VB2", "Meera Iyer", employee.LevelL2, "Vantage", true),
	}
	headers := []string{
		"Candidate Name", "DOJ", "Client", "PLC ID", "Recruiter Name",
	}
	req := Request{
		Headers: headers,
		Rows: [][]Cell{
			{"C1", "pending", "Acme", "P1", "Meera Iyer"},
			{"C2", "2024-05-01", "Acme", "P2", "Meera Iyer"},
		},
	}

	result, err := Run(Personal, req, staff, testLog())
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	require.Equal(t, "C2", result.Rows[0].Fields.CandidateName)
	require.Len(t, result.Errors, 1)
	require.Equal(t, 0, result.Errors[0].RowIndex)
	require.Contains(t, result.Errors[0].Message, "join date")
}

func TestRunTeamBadJoinDateFatal(t *testing.T) {
	req := Request{
		Headers: teamSummaryHeaders(),
		Rows: [][]Cell{
			{"Vantage", "VB1", "Asha Rao", 500000.0, nil, nil, nil, nil, nil, nil},
			headerCells(teamPlacementHeaders()),
			teamPlacementRow("Cand A", "garbage", "Acme Corp", "P1"),
		},
	}

	_, err := Run(Team, req, teamStaff(), testLog())
	require.Error(t, err)

	var base *serrors.Base
	require.True(t, errors.As(err, &base))
	require.Equal(t, "IMPORT_BAD_JOIN_DATE", base.Code)
}

func TestRunSummaryOnlyEntityGetsPlaceholder(t *testing.T) {
	req := Request{
		Headers: teamSummaryHeaders(),
		Rows: [][]Cell{
			{"Zenith", "VB3", "Vikram Singh", 800000.0, 650000.0, 0.8125, nil, "Gold", nil, nil},
		},
	}

	result, err := Run(Team, req, teamStaff(), testLog())
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)

	row := result.Rows[0]
	require.True(t, row.Placeholder)
	require.Equal(t, -1, row.SourceRow)
	require.Equal(t, "Vikram Singh", row.Entity.DisplayName())
	require.Equal(t, placement.PlaceholderCandidate, row.Fields.CandidateName)
	require.Equal(t, placement.PlaceholderKey(row.Entity.ID()), row.Fields.PlcKey)
	require.True(t, row.Fields.JoinDate.Equal(placement.PlaceholderJoinDate))
	require.NotNil(t, row.Fields.Summary.Target)
	require.InDelta(t, 800000.0, *row.Fields.Summary.Target, 0.001)
	require.NotNil(t, row.Fields.Summary.AchievementPct)
	require.InDelta(t, 81.25, *row.Fields.Summary.AchievementPct, 0.001)
	require.NotNil(t, row.Fields.Summary.QualifiedFor)
	require.Equal(t, "Gold", *row.Fields.Summary.QualifiedFor)
}

func TestRunPersonalSummaryThenPlacementBlock(t *testing.T) {
	staff := []employee.Employee{
		testEmployee("VB2", "Meera Iyer", employee.LevelL2, "Vantage", true),
	}
	req := Request{
		Headers: personalSummaryHeaders(),
		Rows: [][]Cell{
			{"Meera Iyer", "VB2", 200000.0, 150000.0, 0.75, 150000.0, "Silver", 7500.0, 5000.0},
			headerCells([]string{"Candidate Name", "DOJ", "Client", "PLC ID", "Recruiter Name"}),
			{"Ravi Kumar", "2024-03-15", "Acme", "P9", nil},
			{"Sunil Shetty", "2024-06-20", "Globex", "P10", nil},
		},
	}

	result, err := Run(Personal, req, staff, testLog())
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)

	first := result.Rows[0]
	require.Equal(t, "Ravi Kumar", first.Fields.CandidateName)
	require.Equal(t, "Meera Iyer", first.Entity.DisplayName())
	require.NotNil(t, first.Fields.Summary.Target)
	require.InDelta(t, 200000.0, *first.Fields.Summary.Target, 0.001)
	require.NotNil(t, first.Fields.Summary.AchievementPct)
	require.InDelta(t, 75.0, *first.Fields.Summary.AchievementPct, 0.001)

	// Only the first row of a block carries the snapshot.
	second := result.Rows[1]
	require.Equal(t, "Sunil Shetty", second.Fields.CandidateName)
	require.True(t, second.Fields.Summary.IsZero())

	// No placeholder: the entity has real rows.
	for _, row := range result.Rows {
		require.False(t, row.Placeholder)
	}
}

func TestRunTeamScopeMismatchRejected(t *testing.T) {
	req := Request{
		Headers:   teamSummaryHeaders(),
		Rows: [][]Cell{
			{"Zenith", "VB3", "Vikram Singh", 800000.0, nil, nil, nil, nil, nil, nil},
		},
		TeamScope: "Vantage",
	}

	result, err := Run(Team, req, teamStaff(), testLog())
	require.NoError(t, err)
	require.Empty(t, result.Rows)
	require.Equal(t, 0, result.Report.SummaryRowsAccepted)
}

func TestRunMalformedRequest(t *testing.T) {
	_, err := Run(Personal, Request{Headers: nil, Rows: [][]Cell{}}, nil, testLog())
	var base *serrors.Base
	require.True(t, errors.As(err, &base))
	require.Equal(t, "IMPORT_BAD_REQUEST", base.Code)

	_, err = Run(Personal, Request{Headers: []string{"x"}, Rows: nil}, nil, testLog())
	require.Error(t, err)
}

func TestRunGlobalDedupeAcrossBlocks(t *testing.T) {
	req := Request{
		Headers: teamSummaryHeaders(),
		Rows: [][]Cell{
			{"Vantage", "VB1", "Asha Rao", 500000.0, nil, nil, nil, nil, nil, nil},
			headerCells(teamPlacementHeaders()),
			teamPlacementRow("Cand A", "2024-03-15", "Acme Corp", "P7"),
			{"Zenith", "VB3", "Vikram Singh", 800000.0, nil, nil, nil, nil, nil, nil},
			teamPlacementRow("Cand B", "2024-04-01", "Globex", "P7"),
		},
	}

	result, err := Run(Team, req, teamStaff(), testLog())
	require.NoError(t, err)

	// The same business key in two blocks: only the last occurrence
	// survives, attributed to the later block's lead.
	require.Len(t, result.Rows, 1)
	require.Equal(t, "Cand B", result.Rows[0].Fields.CandidateName)
	require.Equal(t, "Vikram Singh", result.Rows[0].Entity.DisplayName())
}

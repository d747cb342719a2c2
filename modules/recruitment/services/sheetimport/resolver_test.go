package sheetimport

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/talentgrid-hq/talentgrid/modules/recruitment/domain/aggregates/employee"
)

func testEmployee(code, name string, level employee.Level, team string, active bool) employee.Employee {
	return employee.Hydrate(
		uuid.New(), uuid.New(), code, name, level, team, active,
		time.Time{}, time.Time{},
	)
}

func TestEntityIndexResolve(t *testing.T) {
	asha := testEmployee("VB1", "Asha Rao", employee.LevelL3, "Vantage", true)
	meera := testEmployee("VB2", "Meera Iyer", employee.LevelL2, "Vantage", true)
	vikram := testEmployee("VB3", "Vikram Singh", employee.LevelL4, "Zenith", true)
	gone := testEmployee("VB4", "Former Person", employee.LevelL2, "Vantage", false)

	ix := newEntityIndex([]employee.Employee{asha, meera, vikram, gone}, false)

	t.Run("code match wins over name", func(t *testing.T) {
		got, ok := ix.resolve("vb1", "Vikram Singh", "")
		require.True(t, ok)
		require.Equal(t, asha.ID(), got.ID())
	})

	t.Run("name match case insensitive", func(t *testing.T) {
		got, ok := ix.resolve("", "  meera iyer ", "")
		require.True(t, ok)
		require.Equal(t, meera.ID(), got.ID())
	})

	t.Run("inactive excluded", func(t *testing.T) {
		_, ok := ix.resolve("VB4", "Former Person", "")
		require.False(t, ok)
	})

	t.Run("team scope filters", func(t *testing.T) {
		_, ok := ix.resolve("", "Vikram Singh", "Vantage")
		require.False(t, ok)
		got, ok := ix.resolve("", "Vikram Singh", "Zenith")
		require.True(t, ok)
		require.Equal(t, vikram.ID(), got.ID())
	})
}

func TestEntityIndexLeadsOnly(t *testing.T) {
	asha := testEmployee("VB1", "Asha Rao", employee.LevelL3, "Vantage", true)
	meera := testEmployee("VB2", "Meera Iyer", employee.LevelL2, "Vantage", true)

	ix := newEntityIndex([]employee.Employee{asha, meera}, true)

	_, ok := ix.resolve("VB2", "Meera Iyer", "")
	require.False(t, ok)

	lead, ok := ix.leadByTeam(" vantage ")
	require.True(t, ok)
	require.Equal(t, asha.ID(), lead.ID())

	require.True(t, ix.isKnownTeam("Vantage"))
	require.False(t, ix.isKnownTeam("Acme Corp"))
}

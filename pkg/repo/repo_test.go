package repo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talentgrid-hq/talentgrid/pkg/repo"
)

func TestFormatLimitOffset(t *testing.T) {
	require.Equal(t, "LIMIT 10 OFFSET 20", repo.FormatLimitOffset(10, 20))
	require.Equal(t, "LIMIT 10", repo.FormatLimitOffset(10, 0))
	require.Equal(t, "OFFSET 20", repo.FormatLimitOffset(0, 20))
	require.Equal(t, "", repo.FormatLimitOffset(0, 0))
}

func TestBatchPlaceholders(t *testing.T) {
	require.Equal(t, "($1,$2),($3,$4)", repo.BatchPlaceholders(2, 2))
	require.Equal(t, "($1)", repo.BatchPlaceholders(1, 1))
	require.Equal(t, "($1,$2,$3)", repo.BatchPlaceholders(1, 3))
}

package sheetimport

import (
	"github.com/sirupsen/logrus"

	"github.com/talentgrid-hq/talentgrid/modules/recruitment/domain/aggregates/placement"
)

// dedupeRows enforces global business-key uniqueness across the whole
// import: when a non-sentinel key repeats, only the last occurrence in
// original row order survives. Sentinel keys are exempt and may repeat
// freely. Drops are advisory, never user-visible failures.
func dedupeRows(rows []Row, log *logrus.Entry) []Row {
	last := map[string]int{}
	for i, row := range rows {
		key := placement.NormalizeKey(row.Fields.PlcKey)
		if placement.IsSentinelKey(key) {
			continue
		}
		if prev, ok := last[key]; ok {
			// The surviving occurrence inherits a summary snapshot the
			// displaced one carried.
			if rows[i].Fields.Summary.IsZero() {
				rows[i].Fields.Summary = rows[prev].Fields.Summary
			}
		}
		last[key] = i
	}

	out := make([]Row, 0, len(rows))
	for i, row := range rows {
		key := placement.NormalizeKey(row.Fields.PlcKey)
		if !placement.IsSentinelKey(key) && last[key] != i {
			log.WithFields(logrus.Fields{
				"row":    row.SourceRow,
				"plc_id": row.Fields.PlcKey,
			}).Warn("duplicate plc id across import; keeping last occurrence")
			continue
		}
		out = append(out, row)
	}
	return out
}

package syncer

import (
	"math"
	"time"

	"fjacquet/finance-sync/internal/models"
)

// DefaultFullSyncDays is the lookback used for first-time and forced syncs,
// and the cap for incremental ones.
const DefaultFullSyncDays = 365

// ComputeWindow derives the lookback window for one sync. A forced sync or an
// account that never synced gets fullSyncDays; otherwise the window covers the
// whole days elapsed since the last sync plus one, capped at fullSyncDays.
func ComputeWindow(lastSync *time.Time, force bool, now time.Time, fullSyncDays int) models.SyncWindow {
	if fullSyncDays <= 0 {
		fullSyncDays = DefaultFullSyncDays
	}
	if force || lastSync == nil {
		return models.SyncWindow{LookbackDays: fullSyncDays, IsFullSync: true}
	}

	hours := now.Sub(*lastSync).Hours()
	days := 1
	if hours > 0 {
		days = int(math.Ceil(hours/24)) + 1
	}
	if days > fullSyncDays {
		days = fullSyncDays
	}
	return models.SyncWindow{LookbackDays: days}
}

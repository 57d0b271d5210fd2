package refresh

import (
	"context"
	"log"
	"time"

	"github.com/Niftys/ebiddle/internal/metrics"
	"github.com/Niftys/ebiddle/internal/models"
	"github.com/Niftys/ebiddle/internal/store"
)

// RunStatus is the monitor's verdict for a date.
type RunStatus string

const (
	StatusAlreadySucceeded RunStatus = "alreadySucceeded"
	StatusFailedRetrying   RunStatus = "failedRetrying"
	StatusMissingRetrying  RunStatus = "missingRetrying"
	StatusErrorRetrying    RunStatus = "errorRetrying"
)

// originalStatusNote is recorded on every backup log entry.
const originalStatusNote = "missing_or_failed"

// Monitor inspects the primary run log and re-triggers ingestion whenever it
// cannot confirm a successful run. Any inability to confirm success counts
// as grounds for repair: fresh data is preferred over avoiding duplicate
// work.
type Monitor struct {
	store   store.Store
	trigger RunTrigger
	metrics *metrics.Metrics
}

func NewMonitor(s store.Store, trigger RunTrigger, m *metrics.Metrics) *Monitor {
	return &Monitor{
		store:   s,
		trigger: trigger,
		metrics: m,
	}
}

// CheckAndRepair reads the primary run log for date and, unless it records a
// success, invokes exactly one repair and writes exactly one backup-keyed
// log entry with the outcome.
func (m *Monitor) CheckAndRepair(ctx context.Context, date string) RunStatus {
	status := m.classify(date)
	m.metrics.IncMonitorCheck(string(status))

	if status == StatusAlreadySucceeded {
		log.Printf("Daily refresh already completed successfully for %s", date)
		return status
	}

	log.Printf("Backup needed for %s (%s), triggering manual refresh", date, status)
	m.repair(ctx, date)
	return status
}

func (m *Monitor) classify(date string) RunStatus {
	runLog, exists, err := m.store.GetRunLog(date)
	if err != nil {
		log.Printf("Error checking daily refresh status for %s: %v", date, err)
		return StatusErrorRetrying
	}
	if !exists {
		return StatusMissingRetrying
	}
	if runLog.Success {
		return StatusAlreadySucceeded
	}
	return StatusFailedRetrying
}

func (m *Monitor) repair(ctx context.Context, date string) {
	startTime := time.Now()
	result, err := m.trigger.TriggerRefresh(ctx)
	endTime := time.Now()

	backup := &models.RunLog{
		Date:           date,
		Timestamp:      endTime,
		StartTime:      startTime,
		EndTime:        endTime,
		Duration:       endTime.Sub(startTime).Seconds(),
		Trigger:        models.TriggerBackupScript,
		OriginalStatus: originalStatusNote,
	}
	if err != nil {
		log.Printf("Backup daily refresh failed: %v", err)
		backup.Success = false
		backup.Error = err.Error()
	} else {
		log.Printf("Backup daily refresh completed: %s", result.Message)
		backup.Success = true
		backup.Results = result.Results
	}

	if err := m.store.PutRunLog(models.BackupLogKey(date), backup); err != nil {
		log.Printf("Failed to write backup log for %s: %v", date, err)
	}
}

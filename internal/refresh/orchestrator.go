package refresh

import (
	"context"
	"log"
	"time"

	"github.com/Niftys/ebiddle/internal/ingest"
	"github.com/Niftys/ebiddle/internal/metrics"
	"github.com/Niftys/ebiddle/internal/models"
	"github.com/Niftys/ebiddle/internal/store"
)

// Orchestrator sequences one end-to-end refresh: token, per-category
// ingestion, general aggregation, run log. One category failing never aborts
// the run; credential failure or a failed general/log write does.
type Orchestrator struct {
	store      store.Store
	client     ingest.MarketClient
	collector  *ingest.Collector
	aggregator *Aggregator
	metrics    *metrics.Metrics
	loc        *time.Location
	categories []string
	sampleSize int
}

func NewOrchestrator(s store.Store, client ingest.MarketClient, collector *ingest.Collector, m *metrics.Metrics, loc *time.Location, sampleSize int) *Orchestrator {
	return &Orchestrator{
		store:      s,
		client:     client,
		collector:  collector,
		aggregator: NewAggregator(s),
		metrics:    m,
		loc:        loc,
		categories: models.Categories,
		sampleSize: sampleSize,
	}
}

// Run executes a refresh for today's date. Running twice the same day is not
// a no-op: every snapshot is re-fetched and fully replaced.
//
// Success is recorded whenever the run reaches the final log write, even if
// every individual category failed; callers must inspect Results to detect
// partial degradation.
func (o *Orchestrator) Run(ctx context.Context, trigger string) (*models.RunLog, error) {
	startTime := time.Now()
	date := Today(o.loc)
	log.Printf("Daily refresh started for %s (trigger=%s)", date, trigger)

	token, err := o.client.GetToken(ctx)
	if err != nil {
		return o.failRun(date, trigger, startTime, nil, err)
	}

	results := make([]models.CategoryResult, 0, len(o.categories)+1)
	for _, category := range o.categories {
		items, err := o.collector.Collect(ctx, token, category)
		if err != nil {
			log.Printf("Error processing category %s: %v", category, err)
			o.metrics.IncCategory(category, "error")
			results = append(results, models.CategoryResult{Category: category, Error: err.Error()})
			continue
		}
		if err := o.store.PutSnapshot(date, category, items); err != nil {
			log.Printf("Error storing category %s: %v", category, err)
			o.metrics.IncCategory(category, "error")
			results = append(results, models.CategoryResult{Category: category, Error: err.Error()})
			continue
		}
		log.Printf("%s: %d items stored", category, len(items))
		o.metrics.IncCategory(category, "ok")
		results = append(results, models.CategoryResult{Category: category, ItemCount: len(items)})
	}

	sample, totalPool, err := o.aggregator.Aggregate(date, o.categories, o.sampleSize)
	if err != nil {
		return o.failRun(date, trigger, startTime, results, err)
	}
	if err := o.store.PutSnapshot(date, models.CategoryGeneral, sample); err != nil {
		// No fallback destination for the aggregated sample: abort.
		return o.failRun(date, trigger, startTime, results, err)
	}
	log.Printf("General category created with %d items (selected from %d total)", len(sample), totalPool)
	results = append(results, models.CategoryResult{
		Category:      models.CategoryGeneral,
		ItemCount:     len(sample),
		TotalPoolSize: totalPool,
	})

	endTime := time.Now()
	runLog := &models.RunLog{
		Date:      date,
		Timestamp: endTime,
		StartTime: startTime,
		EndTime:   endTime,
		Duration:  endTime.Sub(startTime).Seconds(),
		Results:   results,
		Success:   true,
		Trigger:   trigger,
	}
	if err := o.store.PutRunLog(date, runLog); err != nil {
		runLog.Success = false
		runLog.Error = err.Error()
		o.metrics.IncRun(trigger, "error")
		return runLog, err
	}

	o.metrics.IncRun(trigger, "ok")
	o.metrics.ObserveRunDuration(endTime.Sub(startTime))
	log.Printf("Daily refresh completed in %.2fs", runLog.Duration)
	return runLog, nil
}

// failRun records a fatal abort: the failure log write is best effort since
// there is no secondary log destination.
func (o *Orchestrator) failRun(date, trigger string, startTime time.Time, results []models.CategoryResult, runErr error) (*models.RunLog, error) {
	endTime := time.Now()
	runLog := &models.RunLog{
		Date:      date,
		Timestamp: endTime,
		StartTime: startTime,
		EndTime:   endTime,
		Duration:  endTime.Sub(startTime).Seconds(),
		Results:   results,
		Success:   false,
		Trigger:   trigger,
		Error:     runErr.Error(),
	}
	if err := o.store.PutRunLog(date, runLog); err != nil {
		log.Printf("Failed to write failure log for %s: %v", date, err)
	}
	o.metrics.IncRun(trigger, "error")
	log.Printf("Daily refresh failed for %s: %v", date, runErr)
	return runLog, runErr
}

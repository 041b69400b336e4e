package job

import (
	"context"
	"log"
	"time"

	"goldtracer/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// SyncRunner is the pipeline the scheduler drives.
type SyncRunner interface {
	RunSync(ctx context.Context, full bool) domain.SyncReport
}

// SyncJob runs the pipeline on a fixed interval. The first run of each UTC
// day is a full run with the wide history lookback; every other run uses the
// incremental window.
type SyncJob struct {
	tracer       trace.Tracer
	runner       SyncRunner
	pollInterval time.Duration

	lastFullDate string
}

func NewSyncJob(tracer trace.Tracer, runner SyncRunner, pollIntervalSecs int) *SyncJob {
	if pollIntervalSecs <= 0 {
		pollIntervalSecs = 300
	}
	return &SyncJob{
		tracer:       tracer,
		runner:       runner,
		pollInterval: time.Duration(pollIntervalSecs) * time.Second,
	}
}

// Start blocks until ctx is cancelled. Runs immediately on start.
func (j *SyncJob) Start(ctx context.Context) {
	log.Println("Sync job starting...")

	j.runOnce(ctx)

	ticker := time.NewTicker(j.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Sync job stopped")
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

func (j *SyncJob) runOnce(ctx context.Context) {
	ctx, span := j.tracer.Start(ctx, "sync-job.run-once")
	defer span.End()

	today := time.Now().UTC().Format("2006-01-02")
	full := today != j.lastFullDate

	report := j.runner.RunSync(ctx, full)
	if full && report.State != domain.StatePartialFailure {
		j.lastFullDate = today
	}
	if !report.Ok() {
		log.Printf("sync run degraded: %d errors, first: %s", len(report.Errors), report.Errors[0])
	}
}

package worker

import (
	"context"
	"log"
	"time"

	"github.com/bitmind-ai/leadbooth/internal/entity"
	"github.com/bitmind-ai/leadbooth/internal/usecase"
)

// AnalysisSweepWorker is the in-process fallback for the external scheduler:
// every tick it enqueues any lead still missing an analysis. Leads picked up
// twice are harmless, the queue worker skips already-analyzed records.
type AnalysisSweepWorker struct {
	repo         entity.LeadRepositoryInterface
	producer     usecase.AnalysisEnqueuer
	tickInterval time.Duration
}

func NewAnalysisSweepWorker(repo entity.LeadRepositoryInterface, producer usecase.AnalysisEnqueuer) *AnalysisSweepWorker {
	return &AnalysisSweepWorker{
		repo:         repo,
		producer:     producer,
		tickInterval: 5 * time.Minute,
	}
}

func (w *AnalysisSweepWorker) Start(ctx context.Context) {
	log.Println("Analysis sweep worker started (5min interval)")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("Analysis sweep worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *AnalysisSweepWorker) sweep(ctx context.Context) {
	leads, err := w.repo.ListMissingAnalysis(ctx)
	if err != nil {
		log.Printf("sweep: failed to scan leads: %v", err)
		return
	}

	enqueued := 0
	for _, lead := range leads {
		if err := w.producer.PublishAnalysis(ctx, lead.ID); err != nil {
			log.Printf("sweep: failed to enqueue lead %s: %v", lead.ID, err)
			continue
		}
		enqueued++
	}

	if enqueued > 0 {
		log.Printf("sweep: enqueued %d leads for analysis", enqueued)
	}
}

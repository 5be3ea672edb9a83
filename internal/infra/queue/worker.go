package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bitmind-ai/leadbooth/internal/entity"
	"github.com/bitmind-ai/leadbooth/internal/infra/http/middleware"
)

// LeadAnalyzer runs the research pipeline for one lead.
type LeadAnalyzer interface {
	AnalyzeByID(ctx context.Context, leadID string) (*entity.AIAnalysis, error)
}

type Worker struct {
	Channel  *amqp.Channel
	Analyzer LeadAnalyzer
}

func NewWorker(ch *amqp.Channel, analyzer LeadAnalyzer) *Worker {
	return &Worker{
		Channel:  ch,
		Analyzer: analyzer,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName, // queue
		"",        // consumer
		false,     // auto-ack (manual is safer)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		log.Fatalf("failed to register RabbitMQ consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload AnalysisPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("[WORKER] invalid JSON, rejecting without requeue: %s", err)
				d.Nack(false, false)
				continue
			}

			log.Printf("[WORKER] analyzing lead %s", payload.LeadID)

			if _, err := w.Analyzer.AnalyzeByID(context.Background(), payload.LeadID); err != nil {
				// Leads are independent: one failure goes to the DLQ and the
				// loop keeps draining the rest.
				log.Printf("[WORKER] analysis failed for lead %s: %s", payload.LeadID, err)
				middleware.RecordAnalysis("failed")
				d.Nack(false, false)
			} else {
				log.Printf("[WORKER] analysis stored for lead %s", payload.LeadID)
				middleware.RecordAnalysis("ok")
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Analysis worker waiting on queue '%s'", queueName)
	<-forever
}

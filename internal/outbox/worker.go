package outbox

import (
	"context"
	"time"

	"aqsit-be/internal/logger"
	"aqsit-be/internal/mailer"

	"go.uber.org/zap"
)

const (
	pollInterval = 10 * time.Second
	batchSize    = 20
)

// Worker drains the email outbox: render, send, mark. It owns no state
// beyond the poll loop; everything durable lives in the table.
type Worker struct {
	repo     Repository
	renderer *mailer.Renderer
	gateway  mailer.Gateway
}

func NewWorker(repo Repository, renderer *mailer.Renderer, gateway mailer.Gateway) *Worker {
	return &Worker{repo: repo, renderer: renderer, gateway: gateway}
}

// Run polls until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	log := logger.L().With(zap.String("component", "outbox_worker"))
	log.Info("outbox worker started")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox worker stopped")
			return
		case <-ticker.C:
			w.drain(ctx, log)
		}
	}
}

func (w *Worker) drain(ctx context.Context, log *zap.Logger) {
	msgs, err := w.repo.ClaimPending(ctx, batchSize)
	if err != nil {
		log.Error("failed to claim outbox batch", zap.Error(err))
		return
	}

	for _, msg := range msgs {
		if err := w.deliver(ctx, msg); err != nil {
			log.Warn("outbox delivery failed",
				zap.Uint("message_id", msg.ID),
				zap.String("template", msg.Template),
				zap.Int("attempts", msg.Attempts+1),
				zap.Error(err),
			)
			if err := w.repo.MarkFailed(ctx, msg.ID, msg.Attempts+1); err != nil {
				log.Error("failed to mark outbox message failed", zap.Uint("message_id", msg.ID), zap.Error(err))
			}
			continue
		}

		if err := w.repo.MarkSent(ctx, msg.ID); err != nil {
			log.Error("failed to mark outbox message sent", zap.Uint("message_id", msg.ID), zap.Error(err))
		}
	}
}

func (w *Worker) deliver(ctx context.Context, msg Message) error {
	html, err := w.renderer.Render(msg.Template, msg.Data)
	if err != nil {
		return err
	}
	return w.gateway.Send(ctx, msg.ToEmail, msg.Subject, html)
}

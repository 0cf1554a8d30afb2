package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"snapgram/internal/docstore/postgres"
)

var (
	documentCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "snapgram_documents_estimated_count",
		Help: "Estimated record count for the documents table.",
	})
)

// Collector periodically samples the self-hosted store's estimated
// document count. Only wired when the postgres backend is active.
type Collector struct {
	Logger *slog.Logger
	Store  *postgres.Store
}

func (c *Collector) Run(ctx context.Context) error {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			count, err := c.Store.EstimatedCount("documents")
			if err != nil {
				c.Logger.Error("collecting document count", "error", err)
				continue
			}
			documentCount.Set(float64(count))
		}
	}
}

package indexer

import (
	"github.com/arkiv-network/indexer/internal/config"
	"github.com/arkiv-network/indexer/internal/logging"
	"github.com/arkiv-network/indexer/internal/metrics"
	"github.com/arkiv-network/indexer/internal/repository"
)

// Indexer drains the four durable work queues and the reindex queue on a
// fixed polling interval, each tick running its five phases strictly in
// order.
type Indexer struct {
	repo     *repository.Repository
	settings config.IndexerSettings
	metrics  *metrics.Metrics
	log      *logging.Logger
}

// New builds an Indexer against repo. settings.Concurrency bounds the
// parallel fan-out of the reindex phase; the other four phases handle their
// items one at a time.
func New(repo *repository.Repository, settings config.IndexerSettings, m *metrics.Metrics, log *logging.Logger) *Indexer {
	return &Indexer{repo: repo, settings: settings, metrics: m, log: log}
}

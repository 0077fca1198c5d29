// Package l3poller supervises one polling goroutine per enabled row of
// l3_chains, harvesting withdrawal (MessagePassed) bridge events directly
// from each L3 chain's RPC endpoint (as opposed to the shared Postgres queues
// the indexer package drains). Deposit events are not harvested from L3
// chains; nothing here writes l3_deposits.
package l3poller

import (
	"context"
	"sync"
	"time"

	"github.com/arkiv-network/indexer/internal/domain"
	"github.com/arkiv-network/indexer/internal/logging"
	"github.com/arkiv-network/indexer/internal/metrics"
	"github.com/arkiv-network/indexer/internal/repository"
)

// restartDelaySteps schedules an increasingly patient retry after a chain's
// polling goroutine dies: quick the first time, capped at five minutes, with
// a final steady-state cadence of ninety seconds once the chain has proven
// persistently unreachable.
var restartDelaySteps = []time.Duration{5 * time.Second, 5 * time.Minute, 90 * time.Second}

func restartDelayFor(consecutiveFailures int) time.Duration {
	if consecutiveFailures <= 0 {
		return restartDelaySteps[0]
	}
	idx := consecutiveFailures
	if idx >= len(restartDelaySteps) {
		idx = len(restartDelaySteps) - 1
	}
	return restartDelaySteps[idx]
}

// Supervisor refreshes the set of enabled L3 chains every RefreshInterval
// and keeps exactly one polling goroutine alive per enabled chain, cancelling
// and restarting it as chains are disabled, re-enabled, or fail.
type Supervisor struct {
	repo            *repository.Repository
	log             *logging.Logger
	metrics         *metrics.Metrics
	refreshInterval time.Duration
	batchSize       int

	mu      sync.Mutex
	running map[uint64]*chainHandle
}

type chainHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// New builds a Supervisor. batchSize is the default block-range width a
// per-chain task requests per RPC call when a chain row doesn't override it.
func New(repo *repository.Repository, log *logging.Logger, m *metrics.Metrics, refreshInterval time.Duration, batchSize int) *Supervisor {
	return &Supervisor{
		repo:            repo,
		log:             log,
		metrics:         m,
		refreshInterval: refreshInterval,
		batchSize:       batchSize,
		running:         make(map[uint64]*chainHandle),
	}
}

// Run blocks until ctx is cancelled, refreshing the enabled chain set on
// every tick of refreshInterval and reconciling running goroutines against
// it.
func (s *Supervisor) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	s.reconcile(ctx)
	for {
		select {
		case <-ctx.Done():
			s.stopAll()
			return ctx.Err()
		case <-ticker.C:
			s.reconcile(ctx)
		}
	}
}

func (s *Supervisor) reconcile(ctx context.Context) {
	chains, err := s.repo.ListEnabledL3Chains(ctx)
	if err != nil {
		s.log.WithContext(ctx).WithError(err).Warn("l3poller: failed to list enabled chains, keeping current set running")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	enabled := make(map[uint64]domain.L3Chain, len(chains))
	for _, c := range chains {
		enabled[c.ChainID] = c
	}

	for chainID, handle := range s.running {
		if _, ok := enabled[chainID]; !ok {
			handle.cancel()
			<-handle.done
			delete(s.running, chainID)
		}
	}

	for chainID, chain := range enabled {
		if _, ok := s.running[chainID]; ok {
			continue
		}
		s.start(ctx, chain)
	}
}

func (s *Supervisor) start(parent context.Context, chain domain.L3Chain) {
	taskCtx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	s.running[chain.ChainID] = &chainHandle{cancel: cancel, done: done}

	batchSize := chain.BatchSize
	if batchSize <= 0 {
		batchSize = s.batchSize
	}

	go func() {
		defer close(done)
		s.runChainWithRestarts(taskCtx, chain.ChainID, chain.ChainName, chain.RPCURL, batchSize)
	}()
}

func (s *Supervisor) runChainWithRestarts(ctx context.Context, chainID uint64, chainName, rpcURL string, batchSize int) {
	failures := 0
	for {
		task, err := newTask(chainID, chainName, rpcURL, batchSize, s.repo, s.log, s.metrics)
		if err == nil {
			err = task.run(ctx)
		}
		if ctx.Err() != nil {
			return
		}
		s.log.WithContext(ctx).WithError(err).
			WithField("chain_id", chainID).
			WithField("chain_name", chainName).
			Warn("l3poller: chain task exited, scheduling restart")

		select {
		case <-ctx.Done():
			return
		case <-time.After(restartDelayFor(failures)):
		}
		failures++
	}
}

func (s *Supervisor) stopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, handle := range s.running {
		handle.cancel()
	}
	for chainID, handle := range s.running {
		<-handle.done
		delete(s.running, chainID)
	}
}

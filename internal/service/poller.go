package service

import (
	"context"
	"sync"
	"time"

	"github.com/ledgerline/onboarding/internal/derive"
	"github.com/ledgerline/onboarding/internal/metrics"
	"github.com/ledgerline/onboarding/internal/snapshot"
)

const defaultPollInterval = 15 * time.Second

// Poller is the external scheduler feeding the pure core: on a fixed
// interval it refreshes every signal and re-derives the pipeline step.
// Derivation lives outside the poller too (handlers re-run it per request);
// the poller's recomputation only keeps the exported gauges current.
type Poller struct {
	refresher *Refresher
	builder   *snapshot.Builder
	recorder  *metrics.Recorder
	interval  time.Duration
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

func NewPoller(refresher *Refresher, builder *snapshot.Builder, recorder *metrics.Recorder, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Poller{
		refresher: refresher,
		builder:   builder,
		recorder:  recorder,
		interval:  interval,
		stopCh:    make(chan struct{}),
	}
}

func (p *Poller) Start() {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.pollLoop()
	}()
}

func (p *Poller) Stop() {
	close(p.stopCh)
	p.wg.Wait()
}

func (p *Poller) pollLoop() {
	// First cycle immediately so the snapshot resolves without waiting a
	// full interval.
	p.pollOnce()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.pollOnce()
		case <-p.stopCh:
			return
		}
	}
}

func (p *Poller) pollOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), p.interval)
	defer cancel()

	err := p.refresher.Refresh(ctx)
	if p.recorder != nil {
		p.recorder.RecordPoll(err == nil)
		p.recorder.SetStep(derive.Step(p.builder.Snapshot()))
	}
}

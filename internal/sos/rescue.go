package sos

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"floodwatch-client/internal/api"
	"floodwatch-client/internal/models"
)

// Poller drives the admin rescue dashboard: a fixed-interval re-poll of the
// SOS list. Status changes and deletes patch the cached slice in place so
// the operator sees the result immediately, before the next poll confirms.
type Poller struct {
	client   *api.Client
	interval time.Duration

	mu       sync.RWMutex
	requests []models.SOSRequest
	err      string

	onUpdate func([]models.SOSRequest)
	stop     chan struct{}
	stopOnce sync.Once
}

func NewPoller(client *api.Client, interval time.Duration) *Poller {
	return &Poller{
		client:   client,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// OnUpdate registers a callback invoked with a snapshot after every
// successful poll or in-place patch. Must be set before Start.
func (p *Poller) OnUpdate(fn func([]models.SOSRequest)) {
	p.onUpdate = fn
}

// Start polls immediately and then on every tick until Stop or ctx done.
func (p *Poller) Start(ctx context.Context) {
	if err := p.Refresh(ctx); err != nil {
		logrus.WithError(err).Warn("initial rescue poll failed")
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := p.Refresh(ctx); err != nil {
				logrus.WithError(err).Warn("rescue poll failed")
			}
		case <-p.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
}

// Refresh replaces the cached list from the backend.
func (p *Poller) Refresh(ctx context.Context) error {
	var requests []models.SOSRequest
	if err := p.client.GetRaw(ctx, "/sos/", &requests); err != nil {
		p.mu.Lock()
		p.err = api.Message(err)
		p.mu.Unlock()
		return err
	}

	p.mu.Lock()
	p.requests = requests
	p.err = ""
	p.mu.Unlock()

	p.notify()
	return nil
}

// UpdateStatus moves a request along pending -> processing -> resolved and
// patches the cache without waiting for the next poll.
func (p *Poller) UpdateStatus(ctx context.Context, id int, status string) error {
	body := map[string]string{"status": status}
	if err := p.client.PutRaw(ctx, fmt.Sprintf("/sos/%d", id), body); err != nil {
		return err
	}

	p.mu.Lock()
	for i := range p.requests {
		if p.requests[i].ID == id {
			p.requests[i].Status = status
		}
	}
	p.mu.Unlock()

	p.notify()
	return nil
}

// Delete removes a resolved or spurious request.
func (p *Poller) Delete(ctx context.Context, id int) error {
	if err := p.client.DeleteRaw(ctx, fmt.Sprintf("/sos/%d", id)); err != nil {
		return err
	}

	p.mu.Lock()
	kept := p.requests[:0]
	for _, r := range p.requests {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	p.requests = kept
	p.mu.Unlock()

	p.notify()
	return nil
}

func (p *Poller) Requests() []models.SOSRequest {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.SOSRequest, len(p.requests))
	copy(out, p.requests)
	return out
}

func (p *Poller) Err() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.err
}

func (p *Poller) notify() {
	if p.onUpdate != nil {
		p.onUpdate(p.Requests())
	}
}

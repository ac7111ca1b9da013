package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/inamate/chartview/internal/chart"
	"github.com/inamate/chartview/internal/config"
	"github.com/inamate/chartview/internal/hub"
	"github.com/inamate/chartview/internal/render"
	"github.com/inamate/chartview/internal/store"
	"github.com/inamate/chartview/internal/typeid"
)

var ErrChartNotFound = errors.New("chart not found")

// instance guards one chart. Charts are not safe for concurrent use.
type instance struct {
	mu        sync.Mutex
	chart     *chart.Chart
	animating bool
}

// registry holds the live charts of the server, persists their options and
// streams their frames to websocket subscribers while they animate.
type registry struct {
	ctx   context.Context
	cfg   *config.Config
	store store.Store
	hub   *hub.Hub

	mu     sync.RWMutex
	charts map[string]*instance
}

func newRegistry(ctx context.Context, cfg *config.Config, st store.Store, h *hub.Hub) *registry {
	return &registry{
		ctx:    ctx,
		cfg:    cfg,
		store:  st,
		hub:    h,
		charts: make(map[string]*instance),
	}
}

type sizeOption struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func optionSize(option []byte) sizeOption {
	var s sizeOption
	_ = json.Unmarshal(option, &s)
	return s
}

func (r *registry) newChart(id string, option []byte) (*chart.Chart, error) {
	size := optionSize(option)
	opts := r.cfg.ChartOptions(size.Width, size.Height)
	opts.ID = id
	c := chart.New(opts)
	if err := c.SetOption(option); err != nil {
		return nil, err
	}
	return c, nil
}

// restore rebuilds every chart from its latest snapshot.
func (r *registry) restore(ctx context.Context) error {
	ids, err := r.store.Charts(ctx)
	if err != nil {
		return fmt.Errorf("restore charts: %w", err)
	}
	for _, id := range ids {
		snap, err := r.store.Latest(ctx, id)
		if err != nil {
			return fmt.Errorf("restore chart %s: %w", id, err)
		}
		c, err := r.newChart(id, snap.Option)
		if err != nil {
			slog.Warn("skip chart with broken snapshot", "chart", id, "version", snap.Version, "error", err)
			continue
		}
		c.Finish()
		r.mu.Lock()
		r.charts[id] = &instance{chart: c}
		r.mu.Unlock()
	}
	slog.Info("charts restored", "count", len(ids))
	return nil
}

// create renders option into a new chart and saves its first snapshot.
func (r *registry) create(ctx context.Context, option []byte) (*chart.Chart, *store.Snapshot, error) {
	c, err := r.newChart("", option)
	if err != nil {
		return nil, nil, err
	}
	snap, err := r.store.Save(ctx, c.ID(), c.Width(), c.Height(), option)
	if err != nil {
		return nil, nil, err
	}
	inst := &instance{chart: c}
	r.mu.Lock()
	r.charts[c.ID()] = inst
	r.mu.Unlock()
	r.startAnimation(c.ID(), inst)
	return c, snap, nil
}

func (r *registry) get(id string) (*instance, error) {
	if err := typeid.ValidateChartID(id); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.charts[id]
	if !ok {
		return nil, fmt.Errorf("chart %s: %w", id, ErrChartNotFound)
	}
	return inst, nil
}

// setOption re-renders a chart with a new option. Elements transition from
// the previous option.
func (r *registry) setOption(ctx context.Context, id string, option []byte) (*store.Snapshot, error) {
	inst, err := r.get(id)
	if err != nil {
		return nil, err
	}
	inst.mu.Lock()
	err = inst.chart.SetOption(option)
	width, height := inst.chart.Width(), inst.chart.Height()
	inst.mu.Unlock()
	if err != nil {
		return nil, err
	}
	snap, err := r.store.Save(ctx, id, width, height, option)
	if err != nil {
		return nil, err
	}
	r.startAnimation(id, inst)
	return snap, nil
}

// with runs fn on the chart while holding its lock, then streams frames if
// fn left work pending.
func (r *registry) with(id string, fn func(c *chart.Chart) error) error {
	inst, err := r.get(id)
	if err != nil {
		return err
	}
	inst.mu.Lock()
	err = fn(inst.chart)
	inst.mu.Unlock()
	if err != nil {
		return err
	}
	r.startAnimation(id, inst)
	return nil
}

func (r *registry) frame(id string) ([]render.DrawCommand, error) {
	var out []render.DrawCommand
	err := r.with(id, func(c *chart.Chart) error {
		out = c.Frame()
		return nil
	})
	return out, err
}

func (r *registry) delete(ctx context.Context, id string) error {
	r.mu.Lock()
	inst, ok := r.charts[id]
	delete(r.charts, id)
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("chart %s: %w", id, ErrChartNotFound)
	}
	inst.mu.Lock()
	inst.chart.Dispose()
	inst.mu.Unlock()
	r.hub.CloseRoom(id)
	if err := r.store.Delete(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}

// handleMessage applies a websocket message to its chart.
func (r *registry) handleMessage(_ context.Context, msg *hub.Message) error {
	switch msg.Type {
	case hub.TypeAction:
		var p chart.Payload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("decode action: %w", err)
		}
		return r.with(msg.ChartID, func(c *chart.Chart) error {
			return c.DispatchAction(p)
		})
	case hub.TypeHover:
		var p hub.HoverPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("decode hover: %w", err)
		}
		return r.with(msg.ChartID, func(c *chart.Chart) error {
			c.HoverAt(p.X, p.Y)
			return nil
		})
	}
	return nil
}

// startAnimation streams frames of a chart until its animations and
// progressive rendering finish. At most one loop runs per chart; every
// change sends at least one frame.
func (r *registry) startAnimation(id string, inst *instance) {
	inst.mu.Lock()
	if inst.animating {
		inst.mu.Unlock()
		return
	}
	inst.animating = true
	inst.mu.Unlock()

	go r.animate(id, inst)
}

func (r *registry) animate(id string, inst *instance) {
	interval := r.cfg.FrameInterval
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var dt time.Duration
	for {
		inst.mu.Lock()
		more := inst.chart.Tick(dt)
		frame, err := inst.chart.FrameJSON()
		if !more {
			inst.animating = false
		}
		inst.mu.Unlock()

		if err != nil {
			slog.Error("encode frame", "chart", id, "error", err)
		} else if r.hub.Clients(id) > 0 {
			r.hub.BroadcastFrame(id, []byte(frame))
		}
		if !more {
			return
		}

		select {
		case <-ticker.C:
			dt = interval
		case <-r.ctx.Done():
			inst.mu.Lock()
			inst.animating = false
			inst.mu.Unlock()
			return
		}
	}
}

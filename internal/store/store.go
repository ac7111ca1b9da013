// Package store keeps versioned snapshots of chart options so charts
// survive a server restart.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/inamate/chartview/internal/typeid"
)

var ErrNotFound = errors.New("snapshot not found")

// Snapshot is one saved option of a chart. Versions start at 1 and grow by
// one per save.
type Snapshot struct {
	ID        string          `json:"id"`
	ChartID   string          `json:"chartId"`
	Version   int32           `json:"version"`
	Width     float64         `json:"width"`
	Height    float64         `json:"height"`
	Option    json.RawMessage `json:"option"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Store persists chart snapshots.
type Store interface {
	Save(ctx context.Context, chartID string, width, height float64, option json.RawMessage) (*Snapshot, error)
	Latest(ctx context.Context, chartID string) (*Snapshot, error)
	// Charts lists every chart with at least one snapshot.
	Charts(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, chartID string) error
	Close()
}

// Memory is an in-process Store. The zero value is not usable; use NewMemory.
type Memory struct {
	mu    sync.RWMutex
	snaps map[string][]*Snapshot
}

func NewMemory() *Memory {
	return &Memory{snaps: make(map[string][]*Snapshot)}
}

func (m *Memory) Save(_ context.Context, chartID string, width, height float64, option json.RawMessage) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.snaps[chartID]
	snap := &Snapshot{
		ID:        typeid.NewSnapshotID(),
		ChartID:   chartID,
		Version:   int32(len(list) + 1),
		Width:     width,
		Height:    height,
		Option:    append(json.RawMessage(nil), option...),
		CreatedAt: time.Now().UTC(),
	}
	m.snaps[chartID] = append(list, snap)
	return snap, nil
}

func (m *Memory) Latest(_ context.Context, chartID string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := m.snaps[chartID]
	if len(list) == 0 {
		return nil, ErrNotFound
	}
	snap := *list[len(list)-1]
	return &snap, nil
}

func (m *Memory) Charts(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.snaps))
	for id := range m.snaps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *Memory) Delete(_ context.Context, chartID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.snaps[chartID]; !ok {
		return ErrNotFound
	}
	delete(m.snaps, chartID)
	return nil
}

func (m *Memory) Close() {}

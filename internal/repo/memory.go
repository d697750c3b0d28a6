package repo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/chemwatch/chemwatch/internal/domain"
	pkgerrors "github.com/chemwatch/chemwatch/pkg/errors"
)

// Memory stores back the same interfaces as the Postgres repos. They are
// the dev/test drivers, a single mutex per store gives the same per-key
// atomicity the SQL statements give.

type MemoryItemStore struct {
	mu     sync.Mutex
	items  map[int]*domain.Item
	nextID int
}

func NewMemoryItemStore() *MemoryItemStore {
	return &MemoryItemStore{
		items:  map[int]*domain.Item{},
		nextID: 1,
	}
}

func (s *MemoryItemStore) Get(ctx context.Context, id int) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("item %d not found", id))
	}
	cp := *item
	return &cp, nil
}

func (s *MemoryItemStore) GetByTag(ctx context.Context, tag string) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.Tag == tag {
			cp := *item
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemoryItemStore) List(ctx context.Context) ([]domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := []domain.Item{}
	for _, item := range s.items {
		if item.Quantity > 0 {
			items = append(items, *item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *MemoryItemStore) ListByCategory(ctx context.Context, category domain.Category) ([]domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := []domain.Item{}
	for _, item := range s.items {
		if item.Category == category && item.Quantity > 0 {
			items = append(items, *item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *MemoryItemStore) UpsertAdd(ctx context.Context, name string, category domain.Category, qty int, tag string) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.Name == name && item.Category == category {
			item.Quantity += qty
			cp := *item
			return &cp, nil
		}
	}
	item := &domain.Item{
		ID:       s.nextID,
		Name:     name,
		Category: category,
		Quantity: qty,
		Tag:      tag,
	}
	s.nextID++
	s.items[item.ID] = item
	cp := *item
	return &cp, nil
}

func (s *MemoryItemStore) AddByTag(ctx context.Context, tag string, delta int) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.Tag == tag {
			item.Quantity += delta
			cp := *item
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemoryItemStore) AdjustQuantity(ctx context.Context, id int, delta int) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("item %d not found", id))
	}
	item.Quantity += delta
	if item.Quantity < 0 {
		item.Quantity = 0
	}
	cp := *item
	return &cp, nil
}

func (s *MemoryItemStore) SetQuantity(ctx context.Context, id int, quantity int) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("item %d not found", id))
	}
	item.Quantity = quantity
	cp := *item
	return &cp, nil
}

func (s *MemoryItemStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return pkgerrors.NewNotFoundError(fmt.Sprintf("item %d not found", id))
	}
	delete(s.items, id)
	return nil
}

type MemoryAlertStore struct {
	mu     sync.Mutex
	alerts map[int]*domain.Alert
	nextID int
}

func NewMemoryAlertStore() *MemoryAlertStore {
	return &MemoryAlertStore{
		alerts: map[int]*domain.Alert{},
		nextID: 1,
	}
}

func (s *MemoryAlertStore) Insert(ctx context.Context, alert *domain.Alert) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	alert.ID = s.nextID
	s.nextID++
	cp := *alert
	s.alerts[cp.ID] = &cp
	return cp.ID, nil
}

func (s *MemoryAlertStore) List(ctx context.Context) ([]domain.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	alerts := []domain.Alert{}
	for _, a := range s.alerts {
		alerts = append(alerts, *a)
	}
	sort.Slice(alerts, func(i, j int) bool { return alerts[i].ID < alerts[j].ID })
	return alerts, nil
}

func (s *MemoryAlertStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.alerts[id]; !ok {
		return pkgerrors.NewNotFoundError(fmt.Sprintf("alert %d not found", id))
	}
	delete(s.alerts, id)
	return nil
}

// MemoryScanStore starts pre-seeded with the empty-tag sentinel, same as
// the seeded scan_state row.
type MemoryScanStore struct {
	mu   sync.Mutex
	scan domain.ScanEvent
}

func NewMemoryScanStore() *MemoryScanStore {
	return &MemoryScanStore{
		scan: domain.ScanEvent{Tag: "", Quantity: 1},
	}
}

func (s *MemoryScanStore) Record(ctx context.Context, scan domain.ScanEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scan = scan
	return nil
}

func (s *MemoryScanStore) Current(ctx context.Context) (domain.ScanEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scan, nil
}

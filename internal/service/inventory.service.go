package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/chemwatch/chemwatch/internal/domain"
	pkgerrors "github.com/chemwatch/chemwatch/pkg/errors"
)

type ItemStore interface {
	Get(ctx context.Context, id int) (*domain.Item, error)
	GetByTag(ctx context.Context, tag string) (*domain.Item, error)
	List(ctx context.Context) ([]domain.Item, error)
	ListByCategory(ctx context.Context, category domain.Category) ([]domain.Item, error)
	UpsertAdd(ctx context.Context, name string, category domain.Category, qty int, tag string) (*domain.Item, error)
	AddByTag(ctx context.Context, tag string, delta int) (*domain.Item, error)
	AdjustQuantity(ctx context.Context, id int, delta int) (*domain.Item, error)
	SetQuantity(ctx context.Context, id int, quantity int) (*domain.Item, error)
	Delete(ctx context.Context, id int) error
}

type ScanStore interface {
	Record(ctx context.Context, scan domain.ScanEvent) error
	Current(ctx context.Context) (domain.ScanEvent, error)
}

// ScanPublisher feeds applied scans to the audit topic. Publishing is
// fire-and-forget, failures never reach the request path.
type ScanPublisher interface {
	PublishScan(scan domain.ScanEvent, matched *domain.Item)
}

type InventoryService struct {
	items     ItemStore
	scans     ScanStore
	publisher ScanPublisher
}

func NewInventoryService(items ItemStore, scans ScanStore) *InventoryService {
	return &InventoryService{
		items: items,
		scans: scans,
	}
}

func (s *InventoryService) AddPublisher(p ScanPublisher) *InventoryService {
	s.publisher = p
	return s
}

// ApplyScan records the scan as the new mailbox value, then credits the
// scanned quantity to the item owning the tag if one exists. With no
// owner the scan stays pending for a later create call. Concurrent scans
// race on the mailbox, last write wins.
func (s *InventoryService) ApplyScan(ctx context.Context, scan domain.ScanEvent) (*domain.Item, error) {
	if scan.Tag == "" {
		return nil, pkgerrors.NewValidationError("tag is required")
	}
	if scan.Quantity < 1 {
		scan.Quantity = 1
	}

	if err := s.scans.Record(ctx, scan); err != nil {
		return nil, err
	}

	item, err := s.items.AddByTag(ctx, scan.Tag, scan.Quantity)
	if err != nil {
		return nil, err
	}

	if item != nil {
		logrus.WithFields(logrus.Fields{
			"tag":      scan.Tag,
			"item":     item.Name,
			"quantity": item.Quantity,
		}).Info("SCAN:MATCHED")
	} else {
		logrus.WithFields(logrus.Fields{
			"tag": scan.Tag,
		}).Info("SCAN:PENDING")
	}

	if s.publisher != nil {
		s.publisher.PublishScan(scan, item)
	}
	return item, nil
}

// CreateOrAugment consumes the pending scan: an existing (name, category)
// pair gains the last scanned quantity, a new item starts at it with the
// scanned tag. Exactly one store write either way.
func (s *InventoryService) CreateOrAugment(ctx context.Context, name string, category domain.Category) (*domain.Item, error) {
	if name == "" {
		return nil, pkgerrors.NewValidationError("item name is required")
	}

	scan, err := s.scans.Current(ctx)
	if err != nil {
		return nil, err
	}
	if !scan.Pending() {
		return nil, pkgerrors.NewNoScanError()
	}

	item, err := s.items.UpsertAdd(ctx, name, category, scan.Quantity, scan.Tag)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"item":     item.Name,
		"category": item.Category,
		"quantity": item.Quantity,
	}).Info("ITEM:UPSERT")
	return item, nil
}

func (s *InventoryService) Increment(ctx context.Context, id int) (*domain.Item, error) {
	return s.items.AdjustQuantity(ctx, id, 1)
}

// Decrement floors at zero instead of erroring, a zero-quantity item just
// stays at zero.
func (s *InventoryService) Decrement(ctx context.Context, id int) (*domain.Item, error) {
	return s.items.AdjustQuantity(ctx, id, -1)
}

func (s *InventoryService) SetQuantity(ctx context.Context, id int, quantity int) (*domain.Item, error) {
	if quantity < 0 {
		return nil, pkgerrors.NewValidationError("quantity must not be negative")
	}
	return s.items.SetQuantity(ctx, id, quantity)
}

func (s *InventoryService) Delete(ctx context.Context, id int) error {
	return s.items.Delete(ctx, id)
}

func (s *InventoryService) Get(ctx context.Context, id int) (*domain.Item, error) {
	return s.items.Get(ctx, id)
}

func (s *InventoryService) List(ctx context.Context) ([]domain.Item, error) {
	return s.items.List(ctx)
}

func (s *InventoryService) ListByCategory(ctx context.Context, category domain.Category) ([]domain.Item, error) {
	return s.items.ListByCategory(ctx, category)
}

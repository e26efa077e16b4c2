package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryLedger owns every change to per-group unit counts. Increment and
// Decrement take the caller's transaction so they commit together with the
// request or donation write they belong to.
type InventoryLedger struct {
	db    *gorm.DB
	cache *cache.InventoryCache
}

func NewInventoryLedger(db *gorm.DB, inventoryCache *cache.InventoryCache) *InventoryLedger {
	return &InventoryLedger{db: db, cache: inventoryCache}
}

func (l *InventoryLedger) GetAll(ctx context.Context) ([]models.InventoryEntry, error) {
	if entries, ok := l.cache.Load(ctx); ok {
		return entries, nil
	}

	gen := l.cache.Generation()
	entries := make([]models.InventoryEntry, 0)
	if err := l.db.WithContext(ctx).Order("blood_group").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}

	l.cache.StoreIfCurrent(ctx, gen, entries)
	return entries, nil
}

// Get returns nil without error when the blood group has no row.
func (l *InventoryLedger) Get(ctx context.Context, bloodGroup string) (*models.InventoryEntry, error) {
	var entry models.InventoryEntry
	err := l.db.WithContext(ctx).Where("blood_group = ?", bloodGroup).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	return &entry, nil
}

// Increment adds units, creating the row on first use. The upsert is a single
// statement so concurrent increments on one group never lose an update.
func (l *InventoryLedger) Increment(tx *gorm.DB, bloodGroup string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	entry := models.InventoryEntry{BloodGroup: bloodGroup, Units: quantity}
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "blood_group"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"units":      gorm.Expr("inventory.units + EXCLUDED.units"),
			"updated_at": gorm.Expr("EXCLUDED.updated_at"),
		}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to increment inventory: %w", err)
	}
	return nil
}

// Decrement subtracts units only where enough stock exists. Zero affected rows
// means the stock was short (or absent) and nothing changed.
func (l *InventoryLedger) Decrement(tx *gorm.DB, bloodGroup string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	result := tx.Model(&models.InventoryEntry{}).
		Where("blood_group = ? AND units >= ?", bloodGroup, quantity).
		UpdateColumns(map[string]interface{}{
			"units":      gorm.Expr("units - ?", quantity),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to decrement inventory: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var current models.InventoryEntry
	err := tx.Where("blood_group = ?", bloodGroup).Take(&current).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &InsufficientInventoryError{BloodGroup: bloodGroup, Requested: quantity, NoStock: true}
	}
	if err != nil {
		return fmt.Errorf("failed to read inventory: %w", err)
	}
	return &InsufficientInventoryError{
		BloodGroup: bloodGroup,
		Available:  current.Units,
		Requested:  quantity,
	}
}

// Invalidate drops the cached listing; call it after the owning transaction commits.
func (l *InventoryLedger) Invalidate(ctx context.Context) {
	l.cache.Invalidate(ctx)
}

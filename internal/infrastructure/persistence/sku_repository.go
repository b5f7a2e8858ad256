package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/inventory"
	"github.com/sfa/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSKURepository implements SKURepository using GORM
type GormSKURepository struct {
	db *gorm.DB
}

// NewGormSKURepository creates a new GormSKURepository
func NewGormSKURepository(db *gorm.DB) *GormSKURepository {
	return &GormSKURepository{db: db}
}

// FindByID finds a SKU by its ID, including its batches
func (r *GormSKURepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.SKU, error) {
	var sku inventory.SKU
	if err := r.db.WithContext(ctx).
		Preload("Batches").
		First(&sku, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sku, nil
}

// FindByIDs finds multiple SKUs by their IDs, including batches
func (r *GormSKURepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]inventory.SKU, error) {
	if len(ids) == 0 {
		return []inventory.SKU{}, nil
	}
	var skus []inventory.SKU
	if err := r.db.WithContext(ctx).
		Preload("Batches").
		Where("id IN ?", ids).
		Find(&skus).Error; err != nil {
		return nil, err
	}
	return skus, nil
}

// FindAll finds all SKUs matching the filter
func (r *GormSKURepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.SKU, error) {
	var skus []inventory.SKU
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.SKU{}).Preload("Batches"),
		filter,
	)

	if err := query.Find(&skus).Error; err != nil {
		return nil, err
	}
	return skus, nil
}

// FindByBatch finds the SKU owning the given batch
func (r *GormSKURepository) FindByBatch(ctx context.Context, batchID uuid.UUID) (*inventory.SKU, error) {
	var batch inventory.Batch
	if err := r.db.WithContext(ctx).
		First(&batch, "id = ?", batchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return r.FindByID(ctx, batch.SKUID)
}

// Save creates or updates a SKU together with its batches
func (r *GormSKURepository) Save(ctx context.Context, sku *inventory.SKU) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Batches").Save(sku).Error; err != nil {
			return err
		}
		return r.saveBatches(tx, sku)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormSKURepository) SaveWithLock(ctx context.Context, sku *inventory.SKU) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&inventory.SKU{}).
			Where("id = ?", sku.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			return err
		}

		if currentVersion != sku.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The SKU has been modified by another user")
		}

		sku.Version++
		sku.UpdatedAt = time.Now()

		result := tx.Model(&inventory.SKU{}).
			Where("id = ? AND version = ?", sku.ID, currentVersion).
			Updates(map[string]interface{}{
				"name":        sku.Name,
				"description": sku.Description,
				"category":    sku.Category,
				"stock":       sku.Stock,
				"version":     sku.Version,
				"updated_at":  sku.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The SKU has been modified by another user")
		}

		return r.saveBatches(tx, sku)
	})
}

// saveBatches reconciles the batch child rows with the aggregate state
func (r *GormSKURepository) saveBatches(tx *gorm.DB, sku *inventory.SKU) error {
	currentBatchIDs := make([]uuid.UUID, len(sku.Batches))
	for i, batch := range sku.Batches {
		currentBatchIDs[i] = batch.ID
	}

	if len(currentBatchIDs) > 0 {
		if err := tx.Where("sku_id = ? AND id NOT IN ?", sku.ID, currentBatchIDs).
			Delete(&inventory.Batch{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("sku_id = ?", sku.ID).
			Delete(&inventory.Batch{}).Error; err != nil {
			return err
		}
	}

	for i := range sku.Batches {
		sku.Batches[i].SKUID = sku.ID
		if err := tx.Save(&sku.Batches[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete deletes a SKU and its batches
func (r *GormSKURepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sku_id = ?", id).Delete(&inventory.Batch{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&inventory.SKU{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts SKUs matching the filter
func (r *GormSKURepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&inventory.SKU{}),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormSKURepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("name ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSKURepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR category ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		}
	}

	return query
}

// Ensure GormSKURepository implements SKURepository
var _ inventory.SKURepository = (*GormSKURepository)(nil)

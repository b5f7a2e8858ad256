package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sfa/backend/internal/domain/fulfillment"
	"github.com/sfa/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormLoadSheetRepository implements LoadSheetRepository using GORM
type GormLoadSheetRepository struct {
	db *gorm.DB
}

// NewGormLoadSheetRepository creates a new GormLoadSheetRepository
func NewGormLoadSheetRepository(db *gorm.DB) *GormLoadSheetRepository {
	return &GormLoadSheetRepository{db: db}
}

// FindByID finds a load sheet by its ID, including items
func (r *GormLoadSheetRepository) FindByID(ctx context.Context, id uuid.UUID) (*fulfillment.LoadSheet, error) {
	var sheet fulfillment.LoadSheet
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&sheet, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sheet, nil
}

// FindAll finds all load sheets matching the filter
func (r *GormLoadSheetRepository) FindAll(ctx context.Context, filter shared.Filter) ([]fulfillment.LoadSheet, error) {
	var sheets []fulfillment.LoadSheet
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&fulfillment.LoadSheet{}).Preload("Items"),
		filter,
	)

	if err := query.Find(&sheets).Error; err != nil {
		return nil, err
	}
	return sheets, nil
}

// FindByStatus finds load sheets in a specific status
func (r *GormLoadSheetRepository) FindByStatus(ctx context.Context, status fulfillment.LoadSheetStatus, filter shared.Filter) ([]fulfillment.LoadSheet, error) {
	var sheets []fulfillment.LoadSheet
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&fulfillment.LoadSheet{}).
			Preload("Items").
			Where("status = ?", status),
		filter,
	)

	if err := query.Find(&sheets).Error; err != nil {
		return nil, err
	}
	return sheets, nil
}

// FindByAssignee finds load sheets assigned to a delivery user
func (r *GormLoadSheetRepository) FindByAssignee(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]fulfillment.LoadSheet, error) {
	var sheets []fulfillment.LoadSheet
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&fulfillment.LoadSheet{}).
			Preload("Items").
			Where("assigned_to = ?", userID),
		filter,
	)

	if err := query.Find(&sheets).Error; err != nil {
		return nil, err
	}
	return sheets, nil
}

// Save creates or updates a load sheet together with its items
func (r *GormLoadSheetRepository) Save(ctx context.Context, sheet *fulfillment.LoadSheet) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(sheet).Error; err != nil {
			return err
		}
		return r.saveItems(tx, sheet)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormLoadSheetRepository) SaveWithLock(ctx context.Context, sheet *fulfillment.LoadSheet) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		if err := tx.Model(&fulfillment.LoadSheet{}).
			Where("id = ?", sheet.ID).
			Select("version").
			Scan(&currentVersion).Error; err != nil {
			return err
		}

		if currentVersion != sheet.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The load sheet has been modified by another user")
		}

		sheet.Version++
		sheet.UpdatedAt = time.Now()

		result := tx.Model(&fulfillment.LoadSheet{}).
			Where("id = ? AND version = ?", sheet.ID, currentVersion).
			Updates(map[string]interface{}{
				"assigned_to":   sheet.AssignedTo,
				"assignee_name": sheet.AssigneeName,
				"status":        sheet.Status,
				"version":       sheet.Version,
				"updated_at":    sheet.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The load sheet has been modified by another user")
		}

		return r.saveItems(tx, sheet)
	})
}

// saveItems reconciles the item child rows with the aggregate state
func (r *GormLoadSheetRepository) saveItems(tx *gorm.DB, sheet *fulfillment.LoadSheet) error {
	itemIDs := make([]uuid.UUID, len(sheet.Items))
	for i, item := range sheet.Items {
		itemIDs[i] = item.ID
	}

	if len(itemIDs) > 0 {
		if err := tx.Where("load_sheet_id = ? AND id NOT IN ?", sheet.ID, itemIDs).
			Delete(&fulfillment.LoadSheetItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("load_sheet_id = ?", sheet.ID).
			Delete(&fulfillment.LoadSheetItem{}).Error; err != nil {
			return err
		}
	}

	for i := range sheet.Items {
		sheet.Items[i].LoadSheetID = sheet.ID
		if err := tx.Save(&sheet.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Count counts load sheets matching the filter
func (r *GormLoadSheetRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&fulfillment.LoadSheet{}),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormLoadSheetRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("creation_date DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormLoadSheetRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("assignee_name ILIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "assigned_to":
			query = query.Where("assigned_to = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("creation_date >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("creation_date <= ?", t)
			}
		}
	}

	return query
}

// Ensure GormLoadSheetRepository implements LoadSheetRepository
var _ fulfillment.LoadSheetRepository = (*GormLoadSheetRepository)(nil)

package repository

import (
	"context"
	"fmt"
	"slices"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultNumberRepository struct {
	DB *gorm.DB
}

func NewDefaultNumberRepository(db *gorm.DB) *DefaultNumberRepository {
	return &DefaultNumberRepository{DB: db}
}

// lockNumbers selects the requested rows FOR UPDATE in value order, so
// concurrent claims over overlapping sets queue instead of deadlocking.
func lockNumbers(tx *gorm.DB, unitID string, values []int64) ([]models.NumberModel, error) {
	var rows []models.NumberModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("unit_id = ? AND value IN ?", unitID, values).
		Order("value ASC").
		Find(&rows).Error
	return rows, err
}

// ReserveNumbers claims every number of the purchase and stores the purchase
// in one transaction. Nothing is written unless all numbers are available.
func (r *DefaultNumberRepository) ReserveNumbers(ctx context.Context, purchase *domain.PurchaseRecord) error {
	if err := domain.CheckNumberSet(purchase.Numbers); err != nil {
		return err
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockActiveUnit(tx, purchase.UnitID); err != nil {
			return err
		}
		rows, err := lockNumbers(tx, purchase.UnitID, purchase.Numbers)
		if err != nil {
			return err
		}
		if len(rows) != len(purchase.Numbers) {
			found := make(map[int64]struct{}, len(rows))
			for _, row := range rows {
				found[row.Value] = struct{}{}
			}
			for _, v := range purchase.Numbers {
				if _, ok := found[v]; !ok {
					return fmt.Errorf("number %d of unit %s: %w", v, purchase.UnitID, domain.ErrNotFound)
				}
			}
		}

		var taken []int64
		for _, row := range rows {
			if row.Status != domain.NumberAvailable {
				taken = append(taken, row.Value)
			}
		}
		if len(taken) > 0 {
			slices.Sort(taken)
			return &domain.UnavailableError{Numbers: taken}
		}

		err = tx.Model(&models.NumberModel{}).
			Where("unit_id = ? AND value IN ?", purchase.UnitID, purchase.Numbers).
			Updates(map[string]any{
				"status":          domain.NumberReserved,
				"holder_name":     purchase.Buyer.Name,
				"holder_document": purchase.Buyer.DocumentID,
				"holder_phone":    purchase.Buyer.Phone,
				"reserved_at":     purchase.CreatedAt,
				"purchase_id":     purchase.ID,
			}).Error
		if err != nil {
			return err
		}
		return tx.Create(mappers.ToGORMPurchase(purchase)).Error
	})
}

func (r *DefaultNumberRepository) ListNumbers(ctx context.Context, unitID string, status domain.NumberStatus) ([]*domain.NumberRecord, error) {
	db := r.DB.WithContext(ctx)
	if err := ensureUnit(db, unitID); err != nil {
		return nil, err
	}
	query := db.Where("unit_id = ?", unitID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var rows []models.NumberModel
	if err := query.Order("value ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	numbers := make([]*domain.NumberRecord, len(rows))
	for i := range rows {
		numbers[i] = mappers.ToDomainNumber(&rows[i])
	}
	return numbers, nil
}

func (r *DefaultNumberRepository) ListValuesByStatus(ctx context.Context, unitID string, status domain.NumberStatus) ([]int64, error) {
	db := r.DB.WithContext(ctx)
	if err := ensureUnit(db, unitID); err != nil {
		return nil, err
	}
	values := make([]int64, 0)
	err := db.Model(&models.NumberModel{}).
		Where("unit_id = ? AND status = ?", unitID, status).
		Order("value ASC").
		Pluck("value", &values).Error
	return values, err
}

func (r *DefaultNumberRepository) CountByStatus(ctx context.Context, unitID string) (domain.NumberStats, error) {
	db := r.DB.WithContext(ctx)
	if err := ensureUnit(db, unitID); err != nil {
		return domain.NumberStats{}, err
	}
	var rows []struct {
		Status domain.NumberStatus
		Count  int64
	}
	err := db.Model(&models.NumberModel{}).
		Select("status, count(*) AS count").
		Where("unit_id = ?", unitID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return domain.NumberStats{}, err
	}

	var stats domain.NumberStats
	for _, row := range rows {
		stats.Total += row.Count
		switch row.Status {
		case domain.NumberAvailable:
			stats.Available = row.Count
		case domain.NumberReserved:
			stats.Reserved = row.Count
		case domain.NumberSold:
			stats.Sold = row.Count
		}
	}
	return stats, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-raffle-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultPurchaseRepository struct {
	DB *gorm.DB
}

func NewDefaultPurchaseRepository(db *gorm.DB) *DefaultPurchaseRepository {
	return &DefaultPurchaseRepository{DB: db}
}

func (r *DefaultPurchaseRepository) GetPurchaseByID(ctx context.Context, purchaseID string) (*domain.PurchaseRecord, error) {
	var purchase models.PurchaseModel
	if err := r.DB.WithContext(ctx).First(&purchase, "id = ?", purchaseID).Error; err != nil {
		return nil, notFound(err, "purchase", purchaseID)
	}
	return mappers.ToDomainPurchase(&purchase), nil
}

func (r *DefaultPurchaseRepository) ListPurchases(ctx context.Context, filter domain.PurchaseFilter) ([]*domain.PurchaseRecord, error) {
	query := r.DB.WithContext(ctx).Model(&models.PurchaseModel{})
	if filter.UnitID != "" {
		query = query.Where("unit_id = ?", filter.UnitID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DocumentID != "" {
		query = query.Where("buyer_document = ?", filter.DocumentID)
	}
	var rows []models.PurchaseModel
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainPurchases(rows), nil
}

// DecidePurchase applies an operator decision to a pending purchase. The
// purchase row and then its numbers are locked, so racing decisions on the
// same purchase serialize and only the first one finds it pending.
func (r *DefaultPurchaseRepository) DecidePurchase(ctx context.Context, purchaseID string, d domain.Decision, at time.Time) (*domain.PurchaseRecord, error) {
	var decided *domain.PurchaseRecord
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var purchase models.PurchaseModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&purchase, "id = ?", purchaseID).Error
		if err != nil {
			return notFound(err, "purchase", purchaseID)
		}
		next, err := purchase.Status.Apply(d)
		if err != nil {
			return err
		}

		values := []int64(purchase.Numbers)
		rows, err := lockNumbers(tx, purchase.UnitID, values)
		if err != nil {
			return err
		}
		if len(rows) != len(values) {
			return fmt.Errorf("%w: purchase %s holds numbers missing from unit %s",
				domain.ErrInvalidTransition, purchase.ID, purchase.UnitID)
		}
		for _, row := range rows {
			if row.Status != domain.NumberReserved || row.PurchaseID != purchase.ID {
				return fmt.Errorf("%w: number %d is not held by purchase %s", domain.ErrInvalidTransition, row.Value, purchase.ID)
			}
		}

		numberUpdate := map[string]any{"status": domain.NumberSold}
		if next == domain.PurchaseRejected {
			numberUpdate = map[string]any{
				"status":          domain.NumberAvailable,
				"holder_name":     "",
				"holder_document": "",
				"holder_phone":    "",
				"reserved_at":     nil,
				"purchase_id":     "",
			}
		}
		err = tx.Model(&models.NumberModel{}).
			Where("unit_id = ? AND value IN ?", purchase.UnitID, values).
			Updates(numberUpdate).Error
		if err != nil {
			return err
		}

		err = tx.Model(&models.PurchaseModel{}).
			Where("id = ?", purchase.ID).
			Updates(map[string]any{"status": next, "decided_at": at}).Error
		if err != nil {
			return err
		}

		purchase.Status = next
		purchase.DecidedAt = &at
		decided = mappers.ToDomainPurchase(&purchase)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decided, nil
}

func (r *DefaultPurchaseRepository) FindPendingBefore(ctx context.Context, before time.Time) ([]*domain.PurchaseRecord, error) {
	var rows []models.PurchaseModel
	err := r.DB.WithContext(ctx).
		Where("status = ? AND created_at < ?", domain.PurchasePending, before).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toDomainPurchases(rows), nil
}

func toDomainPurchases(rows []models.PurchaseModel) []*domain.PurchaseRecord {
	out := make([]*domain.PurchaseRecord, len(rows))
	for i := range rows {
		out[i] = mappers.ToDomainPurchase(&rows[i])
	}
	return out
}

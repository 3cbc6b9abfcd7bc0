package ranking

import (
	"context"
	"sort"
	"time"

	"github.com/LavaJover/shvark-raffle-service/internal/domain"
)

// Build aggregates authorized purchases into a leaderboard. Entries are
// ordered by tickets bought, then by each buyer's earliest authorized
// purchase, then by buyer id. sold is the unit's sold-number count used for
// participation percentages.
func Build(authorized []*domain.PurchaseRecord, sold int64) []domain.RankingEntry {
	type acc struct {
		entry    domain.RankingEntry
		earliest time.Time
	}
	byBuyer := make(map[string]*acc)
	for _, p := range authorized {
		if p.Status != domain.PurchaseAuthorized {
			continue
		}
		key := p.Buyer.Key()
		a, ok := byBuyer[key]
		if !ok {
			a = &acc{
				entry:    domain.RankingEntry{BuyerID: key, BuyerName: p.Buyer.Name},
				earliest: p.CreatedAt,
			}
			byBuyer[key] = a
		}
		a.entry.TicketsBought += len(p.Numbers)
		if p.CreatedAt.Before(a.earliest) {
			a.earliest = p.CreatedAt
			a.entry.BuyerName = p.Buyer.Name
		}
	}

	accs := make([]*acc, 0, len(byBuyer))
	for _, a := range byBuyer {
		if sold > 0 {
			a.entry.ParticipationPercentage = float64(a.entry.TicketsBought) / float64(sold) * 100
		}
		accs = append(accs, a)
	}
	sort.Slice(accs, func(i, j int) bool {
		x, y := accs[i], accs[j]
		if x.entry.TicketsBought != y.entry.TicketsBought {
			return x.entry.TicketsBought > y.entry.TicketsBought
		}
		if !x.earliest.Equal(y.earliest) {
			return x.earliest.Before(y.earliest)
		}
		return x.entry.BuyerID < y.entry.BuyerID
	})

	entries := make([]domain.RankingEntry, len(accs))
	for i, a := range accs {
		entries[i] = a.entry
	}
	return entries
}

type DefaultRankingUsecase struct {
	NumberStore  domain.NumberStore
	PurchaseRepo domain.PurchaseStore
}

func NewDefaultRankingUsecase(numberStore domain.NumberStore, purchaseRepo domain.PurchaseStore) *DefaultRankingUsecase {
	return &DefaultRankingUsecase{NumberStore: numberStore, PurchaseRepo: purchaseRepo}
}

// Rank recomputes the unit's leaderboard from the current ledger.
func (uc *DefaultRankingUsecase) Rank(ctx context.Context, unitID string) ([]domain.RankingEntry, error) {
	stats, err := uc.NumberStore.CountByStatus(ctx, unitID)
	if err != nil {
		return nil, err
	}
	authorized, err := uc.PurchaseRepo.ListPurchases(ctx, domain.PurchaseFilter{
		UnitID: unitID,
		Status: domain.PurchaseAuthorized,
	})
	if err != nil {
		return nil, err
	}
	return Build(authorized, stats.Sold), nil
}

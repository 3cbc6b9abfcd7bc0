package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type PurchaseStatus string

const (
	PurchasePending    PurchaseStatus = "PENDING"
	PurchaseAuthorized PurchaseStatus = "AUTHORIZED"
	PurchaseRejected   PurchaseStatus = "REJECTED"
)

func ParsePurchaseStatus(s string) (PurchaseStatus, error) {
	switch st := PurchaseStatus(strings.ToUpper(s)); st {
	case PurchasePending, PurchaseAuthorized, PurchaseRejected:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown purchase status %q", ErrInvalidInput, s)
}

// Decision is an operator verdict on a pending purchase.
type Decision string

const (
	DecisionAuthorize Decision = "authorize"
	DecisionReject    Decision = "reject"
)

// Apply returns the status a purchase in s moves to under d. Only pending
// purchases accept a decision.
func (s PurchaseStatus) Apply(d Decision) (PurchaseStatus, error) {
	if s != PurchasePending {
		return s, fmt.Errorf("%w: purchase already %s", ErrInvalidTransition, s)
	}
	switch d {
	case DecisionAuthorize:
		return PurchaseAuthorized, nil
	case DecisionReject:
		return PurchaseRejected, nil
	}
	return s, fmt.Errorf("%w: unknown decision %q", ErrInvalidInput, d)
}

type PurchaseRecord struct {
	ID        string
	UnitID    string
	Buyer     Buyer
	Numbers   []int64
	Amount    float64
	Status    PurchaseStatus
	CreatedAt time.Time
	DecidedAt *time.Time
}

// PaymentInfo is what the payment display needs; the core never processes it.
type PaymentInfo struct {
	PurchaseID string
	Amount     float64
	PaymentKey string
	Reference  string
}

type PurchaseFilter struct {
	UnitID     string
	Status     PurchaseStatus
	DocumentID string
}

type PurchaseStore interface {
	GetPurchaseByID(ctx context.Context, purchaseID string) (*PurchaseRecord, error)
	// ListPurchases returns matching records ordered by CreatedAt ascending.
	ListPurchases(ctx context.Context, filter PurchaseFilter) ([]*PurchaseRecord, error)
	// DecidePurchase applies d to a pending purchase and moves its numbers
	// accordingly, as one atomic step.
	DecidePurchase(ctx context.Context, purchaseID string, d Decision, at time.Time) (*PurchaseRecord, error)
	FindPendingBefore(ctx context.Context, before time.Time) ([]*PurchaseRecord, error)
}

type RankingEntry struct {
	BuyerID                 string
	BuyerName               string
	TicketsBought           int
	ParticipationPercentage float64
}

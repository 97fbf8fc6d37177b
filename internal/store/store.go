package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nurpe/marketplace-ledger/internal/model"
)

// ErrNotFound is returned by lookups when no row matches. The service layer
// decides how it surfaces to callers.
var ErrNotFound = errors.New("store: not found")

// Store is the ledger store as the service layer sees it. The *ForUpdate
// methods take row locks when called inside RunInTx; outside a transaction
// they are plain reads.
type Store interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	GetProfileForUpdate(ctx context.Context, id uuid.UUID) (*model.Profile, error)

	// GetContractForProfile returns the contract only when the profile is
	// one of its parties, ErrNotFound otherwise. Absence and lack of access
	// are deliberately indistinguishable.
	GetContractForProfile(ctx context.Context, contractID, profileID uuid.UUID) (*model.Contract, error)
	ListContractsForProfile(ctx context.Context, profileID uuid.UUID) ([]model.Contract, error)
	ListUnpaidJobsForProfile(ctx context.Context, profileID uuid.UUID) ([]model.Job, error)

	// GetUnpaidJobForClient returns the job and its contract when the job is
	// unpaid, the contract is not terminated and clientID is the contract's
	// client. The job row is locked when inside a transaction.
	GetUnpaidJobForClient(ctx context.Context, jobID, clientID uuid.UUID) (*model.Job, *model.Contract, error)
	AddToBalance(ctx context.Context, profileID uuid.UUID, delta decimal.Decimal) error
	MarkJobPaid(ctx context.Context, jobID uuid.UUID, paidAt time.Time) error

	// SumUnpaidPricesForClient sums prices of unpaid jobs under
	// non-terminated contracts where the profile is the client.
	SumUnpaidPricesForClient(ctx context.Context, clientID uuid.UUID) (decimal.Decimal, error)

	// ProfessionTotals aggregates paid jobs with paid_at in [start, end]
	// by contractor profession, ordered by total descending, then
	// profession ascending.
	ProfessionTotals(ctx context.Context, start, end time.Time) ([]model.ProfessionTotal, error)

	// ClientTotals aggregates paid jobs with paid_at in [start, end] by
	// client, ordered by total descending, then client id ascending,
	// capped at limit rows.
	ClientTotals(ctx context.Context, start, end time.Time, limit int) ([]model.ClientTotal, error)
}

// TxRunner executes fn against a transaction-scoped store. An error from fn
// rolls the transaction back; no partial effect stays observable.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(s Store) error) error
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/marketplace-ledger/internal/model"
	"github.com/nurpe/marketplace-ledger/internal/store"
)

// LedgerRepository implements the ledger store on Postgres. RunInTx hands
// out a repository bound to the transaction, so the *ForUpdate reads take
// real row locks.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) RunInTx(ctx context.Context, fn func(s store.Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&LedgerRepository{db: tx})
	})
}

func (r *LedgerRepository) GetProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	return r.getProfile(ctx, id, "")
}

func (r *LedgerRepository) GetProfileForUpdate(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	return r.getProfile(ctx, id, " FOR UPDATE")
}

func (r *LedgerRepository) getProfile(ctx context.Context, id uuid.UUID, locking string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, first_name, last_name, profession, balance, type
		FROM profiles
		WHERE id = ?
	`+locking, id).Scan(&profile).Error
	if err != nil {
		return nil, err
	}
	if profile.ID == uuid.Nil {
		return nil, store.ErrNotFound
	}
	return &profile, nil
}

func (r *LedgerRepository) GetContractForProfile(ctx context.Context, contractID, profileID uuid.UUID) (*model.Contract, error) {
	var contract model.Contract
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, client_id, contractor_id, terms, status
		FROM contracts
		WHERE id = ? AND (client_id = ? OR contractor_id = ?)
	`, contractID, profileID, profileID).Scan(&contract).Error
	if err != nil {
		return nil, err
	}
	if contract.ID == uuid.Nil {
		return nil, store.ErrNotFound
	}
	return &contract, nil
}

func (r *LedgerRepository) ListContractsForProfile(ctx context.Context, profileID uuid.UUID) ([]model.Contract, error) {
	contracts := []model.Contract{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, client_id, contractor_id, terms, status
		FROM contracts
		WHERE status <> 'terminated'
			AND (client_id = ? OR contractor_id = ?)
	`, profileID, profileID).Scan(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *LedgerRepository) ListUnpaidJobsForProfile(ctx context.Context, profileID uuid.UUID) ([]model.Job, error) {
	jobs := []model.Job{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT j.id, j.contract_id, j.description, j.price, j.paid, j.paid_at
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE j.paid = FALSE
			AND c.status <> 'terminated'
			AND (c.client_id = ? OR c.contractor_id = ?)
	`, profileID, profileID).Scan(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *LedgerRepository) GetUnpaidJobForClient(ctx context.Context, jobID, clientID uuid.UUID) (*model.Job, *model.Contract, error) {
	var row struct {
		JobID        uuid.UUID
		ContractID   uuid.UUID
		Description  string
		Price        decimal.Decimal
		Paid         bool
		PaidAt       *time.Time
		ClientID     uuid.UUID
		ContractorID uuid.UUID
		Terms        string
		Status       model.ContractStatus
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			j.id AS job_id,
			j.contract_id,
			j.description,
			j.price,
			j.paid,
			j.paid_at,
			c.client_id,
			c.contractor_id,
			c.terms,
			c.status
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE j.id = ?
			AND j.paid = FALSE
			AND c.status <> 'terminated'
			AND c.client_id = ?
		FOR UPDATE OF j
	`, jobID, clientID).Scan(&row).Error
	if err != nil {
		return nil, nil, err
	}
	if row.JobID == uuid.Nil {
		return nil, nil, store.ErrNotFound
	}

	job := model.Job{
		ID:          row.JobID,
		ContractID:  row.ContractID,
		Description: row.Description,
		Price:       row.Price,
		Paid:        row.Paid,
		PaidAt:      row.PaidAt,
	}
	contract := model.Contract{
		ID:           row.ContractID,
		ClientID:     row.ClientID,
		ContractorID: row.ContractorID,
		Terms:        row.Terms,
		Status:       row.Status,
	}
	return &job, &contract, nil
}

func (r *LedgerRepository) AddToBalance(ctx context.Context, profileID uuid.UUID, delta decimal.Decimal) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE profiles SET balance = balance + ? WHERE id = ?
	`, delta, profileID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *LedgerRepository) MarkJobPaid(ctx context.Context, jobID uuid.UUID, paidAt time.Time) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE jobs SET paid = TRUE, paid_at = ? WHERE id = ? AND paid = FALSE
	`, paidAt, jobID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *LedgerRepository) SumUnpaidPricesForClient(ctx context.Context, clientID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(j.price), 0)
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE j.paid = FALSE
			AND c.status <> 'terminated'
			AND c.client_id = ?
	`, clientID).Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *LedgerRepository) ProfessionTotals(ctx context.Context, start, end time.Time) ([]model.ProfessionTotal, error) {
	totals := []model.ProfessionTotal{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.profession, SUM(j.price) AS total
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles p ON p.id = c.contractor_id
		WHERE j.paid = TRUE
			AND j.paid_at >= ?
			AND j.paid_at <= ?
		GROUP BY p.profession
		ORDER BY total DESC, p.profession ASC
	`, start, end).Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *LedgerRepository) ClientTotals(ctx context.Context, start, end time.Time, limit int) ([]model.ClientTotal, error) {
	totals := []model.ClientTotal{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			p.id,
			p.first_name,
			p.last_name,
			p.profession,
			p.type,
			SUM(j.price) AS total,
			p.balance
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles p ON p.id = c.client_id
		WHERE j.paid = TRUE
			AND j.paid_at >= ?
			AND j.paid_at <= ?
		GROUP BY p.id, p.first_name, p.last_name, p.profession, p.type, p.balance
		ORDER BY total DESC, p.id ASC
		LIMIT ?
	`, start, end, limit).Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

var (
	_ store.Store    = (*LedgerRepository)(nil)
	_ store.TxRunner = (*LedgerRepository)(nil)
)

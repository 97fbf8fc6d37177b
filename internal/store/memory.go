package store

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nurpe/marketplace-ledger/internal/model"
)

// MemoryStore keeps the whole ledger in maps guarded by one mutex. It backs
// the service tests; RunInTx serializes callers the way the database
// serializes transactions. Callers are expected to perform every check
// before the first write, so a failed fn leaves no partial effect.
type MemoryStore struct {
	mu   sync.Mutex
	data *memoryData
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: newMemoryData()}
}

func (m *MemoryStore) RunInTx(_ context.Context, fn func(s Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.data)
}

// AddProfile inserts or replaces a profile.
func (m *MemoryStore) AddProfile(p model.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data.profiles[p.ID]; !ok {
		m.data.profileOrder = append(m.data.profileOrder, p.ID)
	}
	m.data.profiles[p.ID] = &p
}

// AddContract inserts or replaces a contract.
func (m *MemoryStore) AddContract(c model.Contract) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data.contracts[c.ID]; !ok {
		m.data.contractOrder = append(m.data.contractOrder, c.ID)
	}
	m.data.contracts[c.ID] = &c
}

// AddJob inserts or replaces a job.
func (m *MemoryStore) AddJob(j model.Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data.jobs[j.ID]; !ok {
		m.data.jobOrder = append(m.data.jobOrder, j.ID)
	}
	m.data.jobs[j.ID] = &j
}

func (m *MemoryStore) GetProfile(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.GetProfile(ctx, id)
}

func (m *MemoryStore) GetProfileForUpdate(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.GetProfileForUpdate(ctx, id)
}

func (m *MemoryStore) GetContractForProfile(ctx context.Context, contractID, profileID uuid.UUID) (*model.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.GetContractForProfile(ctx, contractID, profileID)
}

func (m *MemoryStore) ListContractsForProfile(ctx context.Context, profileID uuid.UUID) ([]model.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.ListContractsForProfile(ctx, profileID)
}

func (m *MemoryStore) ListUnpaidJobsForProfile(ctx context.Context, profileID uuid.UUID) ([]model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.ListUnpaidJobsForProfile(ctx, profileID)
}

func (m *MemoryStore) GetUnpaidJobForClient(ctx context.Context, jobID, clientID uuid.UUID) (*model.Job, *model.Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.GetUnpaidJobForClient(ctx, jobID, clientID)
}

func (m *MemoryStore) AddToBalance(ctx context.Context, profileID uuid.UUID, delta decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.AddToBalance(ctx, profileID, delta)
}

func (m *MemoryStore) MarkJobPaid(ctx context.Context, jobID uuid.UUID, paidAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.MarkJobPaid(ctx, jobID, paidAt)
}

func (m *MemoryStore) SumUnpaidPricesForClient(ctx context.Context, clientID uuid.UUID) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.SumUnpaidPricesForClient(ctx, clientID)
}

func (m *MemoryStore) ProfessionTotals(ctx context.Context, start, end time.Time) ([]model.ProfessionTotal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.ProfessionTotals(ctx, start, end)
}

func (m *MemoryStore) ClientTotals(ctx context.Context, start, end time.Time, limit int) ([]model.ClientTotal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.ClientTotals(ctx, start, end, limit)
}

var (
	_ Store    = (*MemoryStore)(nil)
	_ TxRunner = (*MemoryStore)(nil)
)

// memoryData holds the actual state. Its methods assume the owning
// MemoryStore mutex is held.
type memoryData struct {
	profiles  map[uuid.UUID]*model.Profile
	contracts map[uuid.UUID]*model.Contract
	jobs      map[uuid.UUID]*model.Job

	// insertion order, so listings match the store-default order a
	// database would produce for seeded rows
	profileOrder  []uuid.UUID
	contractOrder []uuid.UUID
	jobOrder      []uuid.UUID
}

func newMemoryData() *memoryData {
	return &memoryData{
		profiles:  make(map[uuid.UUID]*model.Profile),
		contracts: make(map[uuid.UUID]*model.Contract),
		jobs:      make(map[uuid.UUID]*model.Job),
	}
}

func (d *memoryData) GetProfile(_ context.Context, id uuid.UUID) (*model.Profile, error) {
	p, ok := d.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (d *memoryData) GetProfileForUpdate(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	return d.GetProfile(ctx, id)
}

func (d *memoryData) GetContractForProfile(_ context.Context, contractID, profileID uuid.UUID) (*model.Contract, error) {
	c, ok := d.contracts[contractID]
	if !ok || !c.HasParty(profileID) {
		return nil, ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (d *memoryData) ListContractsForProfile(_ context.Context, profileID uuid.UUID) ([]model.Contract, error) {
	result := []model.Contract{}
	for _, id := range d.contractOrder {
		c := d.contracts[id]
		if c.Status == model.ContractStatusTerminated || !c.HasParty(profileID) {
			continue
		}
		result = append(result, *c)
	}
	return result, nil
}

func (d *memoryData) ListUnpaidJobsForProfile(_ context.Context, profileID uuid.UUID) ([]model.Job, error) {
	result := []model.Job{}
	for _, id := range d.jobOrder {
		j := d.jobs[id]
		if j.Paid {
			continue
		}
		c, ok := d.contracts[j.ContractID]
		if !ok || c.Status == model.ContractStatusTerminated || !c.HasParty(profileID) {
			continue
		}
		result = append(result, *j)
	}
	return result, nil
}

func (d *memoryData) GetUnpaidJobForClient(_ context.Context, jobID, clientID uuid.UUID) (*model.Job, *model.Contract, error) {
	j, ok := d.jobs[jobID]
	if !ok || j.Paid {
		return nil, nil, ErrNotFound
	}
	c, ok := d.contracts[j.ContractID]
	if !ok || c.Status == model.ContractStatusTerminated || c.ClientID != clientID {
		return nil, nil, ErrNotFound
	}
	jobCopy := *j
	contractCopy := *c
	return &jobCopy, &contractCopy, nil
}

func (d *memoryData) AddToBalance(_ context.Context, profileID uuid.UUID, delta decimal.Decimal) error {
	p, ok := d.profiles[profileID]
	if !ok {
		return ErrNotFound
	}
	p.Balance = p.Balance.Add(delta)
	return nil
}

func (d *memoryData) MarkJobPaid(_ context.Context, jobID uuid.UUID, paidAt time.Time) error {
	j, ok := d.jobs[jobID]
	if !ok {
		return ErrNotFound
	}
	j.Paid = true
	j.PaidAt = &paidAt
	return nil
}

func (d *memoryData) SumUnpaidPricesForClient(_ context.Context, clientID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, id := range d.jobOrder {
		j := d.jobs[id]
		if j.Paid {
			continue
		}
		c, ok := d.contracts[j.ContractID]
		if !ok || c.Status == model.ContractStatusTerminated || c.ClientID != clientID {
			continue
		}
		total = total.Add(j.Price)
	}
	return total, nil
}

func (d *memoryData) ProfessionTotals(_ context.Context, start, end time.Time) ([]model.ProfessionTotal, error) {
	totals := make(map[string]decimal.Decimal)
	for _, id := range d.jobOrder {
		j := d.jobs[id]
		if !d.paidInRange(j, start, end) {
			continue
		}
		c, ok := d.contracts[j.ContractID]
		if !ok {
			continue
		}
		contractor, ok := d.profiles[c.ContractorID]
		if !ok {
			continue
		}
		totals[contractor.Profession] = totals[contractor.Profession].Add(j.Price)
	}

	result := make([]model.ProfessionTotal, 0, len(totals))
	for profession, total := range totals {
		result = append(result, model.ProfessionTotal{Profession: profession, Total: total})
	}
	sort.Slice(result, func(i, k int) bool {
		if cmp := result[i].Total.Cmp(result[k].Total); cmp != 0 {
			return cmp > 0
		}
		return result[i].Profession < result[k].Profession
	})
	return result, nil
}

func (d *memoryData) ClientTotals(_ context.Context, start, end time.Time, limit int) ([]model.ClientTotal, error) {
	totals := make(map[uuid.UUID]decimal.Decimal)
	for _, id := range d.jobOrder {
		j := d.jobs[id]
		if !d.paidInRange(j, start, end) {
			continue
		}
		c, ok := d.contracts[j.ContractID]
		if !ok {
			continue
		}
		totals[c.ClientID] = totals[c.ClientID].Add(j.Price)
	}

	result := make([]model.ClientTotal, 0, len(totals))
	for clientID, total := range totals {
		client, ok := d.profiles[clientID]
		if !ok {
			continue
		}
		result = append(result, model.ClientTotal{
			ID:         client.ID,
			FirstName:  client.FirstName,
			LastName:   client.LastName,
			Profession: client.Profession,
			Type:       client.Type,
			Total:      total,
			Balance:    client.Balance,
		})
	}
	sort.Slice(result, func(i, k int) bool {
		if cmp := result[i].Total.Cmp(result[k].Total); cmp != 0 {
			return cmp > 0
		}
		return bytes.Compare(result[i].ID[:], result[k].ID[:]) < 0
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (d *memoryData) paidInRange(j *model.Job, start, end time.Time) bool {
	if !j.Paid || j.PaidAt == nil {
		return false
	}
	return !j.PaidAt.Before(start) && !j.PaidAt.After(end)
}

var _ Store = (*memoryData)(nil)

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/marketplace-ledger/internal/model"
)

func seedProfile(st *MemoryStore, profileType model.ProfileType, profession string, balance int64) model.Profile {
	profile := model.Profile{
		ID:         uuid.New(),
		FirstName:  "Seed",
		LastName:   "Profile",
		Profession: profession,
		Balance:    decimal.NewFromInt(balance),
		Type:       profileType,
	}
	st.AddProfile(profile)
	return profile
}

func seedContract(st *MemoryStore, client, contractor model.Profile, status model.ContractStatus) model.Contract {
	contract := model.Contract{
		ID:           uuid.New(),
		ClientID:     client.ID,
		ContractorID: contractor.ID,
		Terms:        "bla bla bla",
		Status:       status,
	}
	st.AddContract(contract)
	return contract
}

func seedJob(st *MemoryStore, contract model.Contract, price int64, paidAt *time.Time) model.Job {
	job := model.Job{
		ID:          uuid.New(),
		ContractID:  contract.ID,
		Description: "work",
		Price:       decimal.NewFromInt(price),
		Paid:        paidAt != nil,
		PaidAt:      paidAt,
	}
	st.AddJob(job)
	return job
}

func TestMemoryStoreListingsKeepInsertionOrder(t *testing.T) {
	st := NewMemoryStore()
	client := seedProfile(st, model.ProfileTypeClient, "Wizard", 100)
	contractor := seedProfile(st, model.ProfileTypeContractor, "Musician", 0)

	first := seedContract(st, client, contractor, model.ContractStatusNew)
	second := seedContract(st, client, contractor, model.ContractStatusInProgress)

	contracts, err := st.ListContractsForProfile(context.Background(), client.ID)
	require.NoError(t, err)
	require.Len(t, contracts, 2)
	assert.Equal(t, first.ID, contracts[0].ID)
	assert.Equal(t, second.ID, contracts[1].ID)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	st := NewMemoryStore()
	profile := seedProfile(st, model.ProfileTypeClient, "Wizard", 100)

	got, err := st.GetProfile(context.Background(), profile.ID)
	require.NoError(t, err)
	got.Balance = decimal.NewFromInt(0)

	again, err := st.GetProfile(context.Background(), profile.ID)
	require.NoError(t, err)
	assert.True(t, again.Balance.Equal(decimal.NewFromInt(100)))
}

func TestMemoryStoreGetUnpaidJobForClient(t *testing.T) {
	st := NewMemoryStore()
	client := seedProfile(st, model.ProfileTypeClient, "Wizard", 100)
	contractor := seedProfile(st, model.ProfileTypeContractor, "Musician", 0)
	contract := seedContract(st, client, contractor, model.ContractStatusInProgress)
	job := seedJob(st, contract, 200, nil)

	gotJob, gotContract, err := st.GetUnpaidJobForClient(context.Background(), job.ID, client.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, gotJob.ID)
	assert.Equal(t, contract.ID, gotContract.ID)
	assert.Equal(t, contractor.ID, gotContract.ContractorID)

	// the contractor is not the paying side
	_, _, err = st.GetUnpaidJobForClient(context.Background(), job.ID, contractor.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreProfessionTotalsOrdering(t *testing.T) {
	st := NewMemoryStore()
	client := seedProfile(st, model.ProfileTypeClient, "Wizard", 1000)
	musician := seedProfile(st, model.ProfileTypeContractor, "Musician", 0)
	programmer := seedProfile(st, model.ProfileTypeContractor, "Programmer", 0)

	paidAt := time.Date(2020, 8, 15, 12, 0, 0, 0, time.UTC)
	seedJob(st, seedContract(st, client, musician, model.ContractStatusInProgress), 500, &paidAt)
	seedJob(st, seedContract(st, client, programmer, model.ContractStatusInProgress), 400, &paidAt)

	totals, err := st.ProfessionTotals(context.Background(),
		time.Date(2020, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 8, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "Musician", totals[0].Profession)
	assert.True(t, totals[0].Total.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "Programmer", totals[1].Profession)
}

func TestMemoryStoreSumUnpaidPricesForClient(t *testing.T) {
	st := NewMemoryStore()
	client := seedProfile(st, model.ProfileTypeClient, "Wizard", 1000)
	contractor := seedProfile(st, model.ProfileTypeContractor, "Musician", 0)
	active := seedContract(st, client, contractor, model.ContractStatusInProgress)
	terminated := seedContract(st, client, contractor, model.ContractStatusTerminated)

	seedJob(st, active, 200, nil)
	seedJob(st, active, 201, nil)
	seedJob(st, terminated, 999, nil)
	paidAt := time.Date(2020, 8, 15, 12, 0, 0, 0, time.UTC)
	seedJob(st, active, 999, &paidAt)

	total, err := st.SumUnpaidPricesForClient(context.Background(), client.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(401)))
}

func TestMemoryStoreRunInTxSerializes(t *testing.T) {
	st := NewMemoryStore()
	profile := seedProfile(st, model.ProfileTypeClient, "Wizard", 0)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			_ = st.RunInTx(context.Background(), func(s Store) error {
				return s.AddToBalance(context.Background(), profile.ID, decimal.NewFromInt(1))
			})
		}
	}()
	for i := 0; i < 100; i++ {
		_ = st.RunInTx(context.Background(), func(s Store) error {
			return s.AddToBalance(context.Background(), profile.ID, decimal.NewFromInt(1))
		})
	}
	<-done

	got, err := st.GetProfile(context.Background(), profile.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(200)))
}

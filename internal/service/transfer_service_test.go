package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/marketplace-ledger/internal/model"
	"github.com/nurpe/marketplace-ledger/internal/store"
)

type ledgerFixture struct {
	store     *store.MemoryStore
	transfers *TransferService
}

func newLedgerFixture() *ledgerFixture {
	st := store.NewMemoryStore()
	return &ledgerFixture{
		store:     st,
		transfers: NewTransferService(st),
	}
}

func (f *ledgerFixture) addProfile(t *testing.T, profileType model.ProfileType, profession string, balance int64) model.Profile {
	t.Helper()
	profile := model.Profile{
		ID:         uuid.New(),
		FirstName:  "Test",
		LastName:   "Profile",
		Profession: profession,
		Balance:    decimal.NewFromInt(balance),
		Type:       profileType,
	}
	f.store.AddProfile(profile)
	return profile
}

func (f *ledgerFixture) addContract(t *testing.T, client, contractor model.Profile, status model.ContractStatus) model.Contract {
	t.Helper()
	contract := model.Contract{
		ID:           uuid.New(),
		ClientID:     client.ID,
		ContractorID: contractor.ID,
		Terms:        "bla bla bla",
		Status:       status,
	}
	f.store.AddContract(contract)
	return contract
}

func (f *ledgerFixture) addJob(t *testing.T, contract model.Contract, price int64) model.Job {
	t.Helper()
	job := model.Job{
		ID:          uuid.New(),
		ContractID:  contract.ID,
		Description: "work",
		Price:       decimal.NewFromInt(price),
	}
	f.store.AddJob(job)
	return job
}

func (f *ledgerFixture) balance(t *testing.T, id uuid.UUID) decimal.Decimal {
	t.Helper()
	profile, err := f.store.GetProfile(context.Background(), id)
	require.NoError(t, err)
	return profile.Balance
}

func TestPayJobMovesPriceBetweenBalances(t *testing.T) {
	f := newLedgerFixture()
	client := f.addProfile(t, model.ProfileTypeClient, "Wizard", 950)
	contractor := f.addProfile(t, model.ProfileTypeContractor, "Musician", 100)
	other := f.addProfile(t, model.ProfileTypeContractor, "Programmer", 40)
	contract := f.addContract(t, client, contractor, model.ContractStatusInProgress)
	job := f.addJob(t, contract, 200)

	err := f.transfers.PayJob(context.Background(), job.ID, client.ID)
	require.NoError(t, err)

	assert.True(t, f.balance(t, client.ID).Equal(decimal.NewFromInt(750)))
	assert.True(t, f.balance(t, contractor.ID).Equal(decimal.NewFromInt(300)))
	// nobody else moves
	assert.True(t, f.balance(t, other.ID).Equal(decimal.NewFromInt(40)))

	jobs, err := f.store.ListUnpaidJobsForProfile(context.Background(), client.ID)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestPayJobSetsPaidTimestamp(t *testing.T) {
	f := newLedgerFixture()
	client := f.addProfile(t, model.ProfileTypeClient, "Wizard", 500)
	contractor := f.addProfile(t, model.ProfileTypeContractor, "Musician", 0)
	contract := f.addContract(t, client, contractor, model.ContractStatusInProgress)
	job := f.addJob(t, contract, 100)

	require.NoError(t, f.transfers.PayJob(context.Background(), job.ID, client.ID))

	_, _, err := f.store.GetUnpaidJobForClient(context.Background(), job.ID, client.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPayJobTwiceFailsSecondTime(t *testing.T) {
	f := newLedgerFixture()
	client := f.addProfile(t, model.ProfileTypeClient, "Wizard", 950)
	contractor := f.addProfile(t, model.ProfileTypeContractor, "Musician", 0)
	contract := f.addContract(t, client, contractor, model.ContractStatusInProgress)
	job := f.addJob(t, contract, 200)

	require.NoError(t, f.transfers.PayJob(context.Background(), job.ID, client.ID))
	err := f.transfers.PayJob(context.Background(), job.ID, client.ID)
	assert.ErrorIs(t, err, ErrJobNotEligible)

	// no second movement
	assert.True(t, f.balance(t, client.ID).Equal(decimal.NewFromInt(750)))
	assert.True(t, f.balance(t, contractor.ID).Equal(decimal.NewFromInt(200)))
}

func TestPayJobInsufficientFunds(t *testing.T) {
	f := newLedgerFixture()
	client := f.addProfile(t, model.ProfileTypeClient, "Wizard", 100)
	contractor := f.addProfile(t, model.ProfileTypeContractor, "Musician", 0)
	contract := f.addContract(t, client, contractor, model.ContractStatusInProgress)
	job := f.addJob(t, contract, 200)

	err := f.transfers.PayJob(context.Background(), job.ID, client.ID)
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Contains(t, err.Error(), "200")
	assert.Contains(t, err.Error(), "100")

	assert.True(t, f.balance(t, client.ID).Equal(decimal.NewFromInt(100)))
	assert.True(t, f.balance(t, contractor.ID).Equal(decimal.NewFromInt(0)))
}

func TestPayJobExactBalanceIsRejected(t *testing.T) {
	f := newLedgerFixture()
	client := f.addProfile(t, model.ProfileTypeClient, "Wizard", 200)
	contractor := f.addProfile(t, model.ProfileTypeContractor, "Musician", 0)
	contract := f.addContract(t, client, contractor, model.ContractStatusInProgress)
	job := f.addJob(t, contract, 200)

	err := f.transfers.PayJob(context.Background(), job.ID, client.ID)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestPayJobTerminatedContract(t *testing.T) {
	f := newLedgerFixture()
	client := f.addProfile(t, model.ProfileTypeClient, "Wizard", 950)
	contractor := f.addProfile(t, model.ProfileTypeContractor, "Musician", 0)
	contract := f.addContract(t, client, contractor, model.ContractStatusTerminated)
	job := f.addJob(t, contract, 200)

	err := f.transfers.PayJob(context.Background(), job.ID, client.ID)
	assert.ErrorIs(t, err, ErrJobNotEligible)
}

func TestPayJobOnlyContractClientMayPay(t *testing.T) {
	f := newLedgerFixture()
	client := f.addProfile(t, model.ProfileTypeClient, "Wizard", 950)
	otherClient := f.addProfile(t, model.ProfileTypeClient, "Knight", 950)
	contractor := f.addProfile(t, model.ProfileTypeContractor, "Musician", 0)
	contract := f.addContract(t, client, contractor, model.ContractStatusInProgress)
	job := f.addJob(t, contract, 200)

	assert.ErrorIs(t, f.transfers.PayJob(context.Background(), job.ID, otherClient.ID), ErrJobNotEligible)
	assert.ErrorIs(t, f.transfers.PayJob(context.Background(), job.ID, contractor.ID), ErrJobNotEligible)
}

func TestPayJobMissingJob(t *testing.T) {
	f := newLedgerFixture()
	client := f.addProfile(t, model.ProfileTypeClient, "Wizard", 950)

	err := f.transfers.PayJob(context.Background(), uuid.New(), client.ID)
	assert.ErrorIs(t, err, ErrJobNotEligible)
}

func TestDepositQuarterBound(t *testing.T) {
	f := newLedgerFixture()
	client := f.addProfile(t, model.ProfileTypeClient, "Wizard", 1000)
	contractor := f.addProfile(t, model.ProfileTypeContractor, "Musician", 0)
	contract := f.addContract(t, client, contractor, model.ContractStatusInProgress)
	f.addJob(t, contract, 200)
	f.addJob(t, contract, 201)

	// totalOwed = 401, quarter = 100.25
	err := f.transfers.Deposit(context.Background(), client.ID, client.ID, decimal.NewFromInt(200))
	require.ErrorIs(t, err, ErrDepositLimitExceeded)
	assert.Contains(t, err.Error(), "401")

	err = f.transfers.Deposit(context.Background(), client.ID, client.ID, decimal.NewFromInt(20))
	assert.NoError(t, err)
}

func TestDepositBoundaryEqualToQuarterFails(t *testing.T) {
	f := newLedgerFixture()
	client := f.addProfile(t, model.ProfileTypeClient, "Wizard", 1000)
	target := f.addProfile(t, model.ProfileTypeContractor, "Musician", 0)
	contract := f.addContract(t, client, target, model.ContractStatusInProgress)
	f.addJob(t, contract, 400)

	err := f.transfers.Deposit(context.Background(), target.ID, client.ID, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, ErrDepositLimitExceeded)

	err = f.transfers.Deposit(context.Background(), target.ID, client.ID, decimal.RequireFromString("99.99"))
	assert.NoError(t, err)
}

func TestDepositMovesMoneyBetweenProfiles(t *testing.T) {
	f := newLedgerFixture()
	client := f.addProfile(t, model.ProfileTypeClient, "Wizard", 1000)
	target := f.addProfile(t, model.ProfileTypeContractor, "Musician", 5)
	contract := f.addContract(t, client, target, model.ContractStatusInProgress)
	f.addJob(t, contract, 400)

	require.NoError(t, f.transfers.Deposit(context.Background(), target.ID, client.ID, decimal.NewFromInt(50)))

	assert.True(t, f.balance(t, client.ID).Equal(decimal.NewFromInt(950)))
	assert.True(t, f.balance(t, target.ID).Equal(decimal.NewFromInt(55)))
}

func TestDepositIgnoresPaidAndTerminatedJobs(t *testing.T) {
	f := newLedgerFixture()
	client := f.addProfile(t, model.ProfileTypeClient, "Wizard", 1000)
	contractor := f.addProfile(t, model.ProfileTypeContractor, "Musician", 0)
	active := f.addContract(t, client, contractor, model.ContractStatusInProgress)
	terminated := f.addContract(t, client, contractor, model.ContractStatusTerminated)

	f.addJob(t, active, 400)
	f.addJob(t, terminated, 10000)
	paid := f.addJob(t, active, 10000)
	require.NoError(t, f.store.MarkJobPaid(context.Background(), paid.ID, fixedTime(2020, 8, 15)))

	// only the 400 job counts: quarter is 100
	err := f.transfers.Deposit(context.Background(), client.ID, client.ID, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, ErrDepositLimitExceeded)

	err = f.transfers.Deposit(context.Background(), client.ID, client.ID, decimal.NewFromInt(99))
	assert.NoError(t, err)
}

func TestDepositWithNoUnpaidJobsAlwaysFails(t *testing.T) {
	f := newLedgerFixture()
	client := f.addProfile(t, model.ProfileTypeClient, "Wizard", 1000)
	target := f.addProfile(t, model.ProfileTypeContractor, "Musician", 0)

	err := f.transfers.Deposit(context.Background(), target.ID, client.ID, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrDepositLimitExceeded)
}

func TestDepositUnknownProfiles(t *testing.T) {
	f := newLedgerFixture()
	client := f.addProfile(t, model.ProfileTypeClient, "Wizard", 1000)

	err := f.transfers.Deposit(context.Background(), uuid.New(), client.ID, decimal.NewFromInt(10))
	assert.ErrorIs(t, err, ErrNotFound)

	err = f.transfers.Deposit(context.Background(), client.ID, uuid.New(), decimal.NewFromInt(10))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	f := newLedgerFixture()
	client := f.addProfile(t, model.ProfileTypeClient, "Wizard", 1000)

	err := f.transfers.Deposit(context.Background(), client.ID, client.ID, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = f.transfers.Deposit(context.Background(), client.ID, client.ID, decimal.NewFromInt(-5))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/nurpe/marketplace-ledger/internal/model"
	"github.com/nurpe/marketplace-ledger/internal/store"
)

// AccessService restricts contract and job reads to the profiles that
// participate in them.
type AccessService struct {
	store store.Store
}

func NewAccessService(st store.Store) *AccessService {
	return &AccessService{store: st}
}

// GetContract returns the contract only when the profile is its client or
// contractor. A contract the profile is not party to is reported exactly
// like a missing one, so existence cannot be probed.
func (s *AccessService) GetContract(ctx context.Context, contractID, profileID uuid.UUID) (*model.Contract, error) {
	contract, err := s.store.GetContractForProfile(ctx, contractID, profileID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return contract, nil
}

// ListContracts returns the profile's non-terminated contracts.
func (s *AccessService) ListContracts(ctx context.Context, profileID uuid.UUID) ([]model.Contract, error) {
	return s.store.ListContractsForProfile(ctx, profileID)
}

// ListUnpaidJobs returns unpaid jobs under the profile's non-terminated
// contracts, for either side of the contract.
func (s *AccessService) ListUnpaidJobs(ctx context.Context, profileID uuid.UUID) ([]model.Job, error) {
	return s.store.ListUnpaidJobsForProfile(ctx, profileID)
}

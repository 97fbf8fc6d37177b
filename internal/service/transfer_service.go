package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nurpe/marketplace-ledger/internal/model"
	"github.com/nurpe/marketplace-ledger/internal/store"
)

var four = decimal.NewFromInt(4)

// TransferService moves money between profile balances. Every mutation runs
// inside one store transaction; a business rejection or storage error rolls
// the whole transfer back.
type TransferService struct {
	tx store.TxRunner
}

func NewTransferService(tx store.TxRunner) *TransferService {
	return &TransferService{tx: tx}
}

// PayJob pays an unpaid job on behalf of the contract's client: the client
// balance drops by the job price, the contractor balance rises by it, and
// the job is marked paid, all in one transaction.
//
// A missing job, an already paid job, a terminated contract and a payer who
// is not the contract's client all surface as ErrJobNotEligible.
func (s *TransferService) PayJob(ctx context.Context, jobID, payerID uuid.UUID) error {
	if jobID == uuid.Nil || payerID == uuid.Nil {
		return fmt.Errorf("%w: job id and payer id are required", ErrInvalidInput)
	}

	err := s.tx.RunInTx(ctx, func(st store.Store) error {
		job, contract, err := st.GetUnpaidJobForClient(ctx, jobID, payerID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrJobNotEligible
			}
			return err
		}

		payer, contractor, err := lockProfilePair(ctx, st, payerID, contract.ContractorID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}

		// paying the exact balance is rejected too, the client must keep
		// something spare
		if payer.Balance.Cmp(job.Price) <= 0 {
			return fmt.Errorf("%w: job price %s, balance %s", ErrInsufficientFunds, job.Price, payer.Balance)
		}

		if err := st.AddToBalance(ctx, contractor.ID, job.Price); err != nil {
			return err
		}
		if err := st.AddToBalance(ctx, payer.ID, job.Price.Neg()); err != nil {
			return err
		}
		return st.MarkJobPaid(ctx, job.ID, time.Now().UTC())
	})
	return wrapTransferErr(err)
}

// Deposit moves amount from the payer's balance to the target profile. The
// amount must stay under a quarter of the payer's outstanding unpaid job
// prices; the bound keeps a client from inflating its balance while work
// remains unpaid.
func (s *TransferService) Deposit(ctx context.Context, targetID, payerID uuid.UUID, amount decimal.Decimal) error {
	if targetID == uuid.Nil || payerID == uuid.Nil {
		return fmt.Errorf("%w: target id and payer id are required", ErrInvalidInput)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	err := s.tx.RunInTx(ctx, func(st store.Store) error {
		payer, target, err := lockProfilePair(ctx, st, payerID, targetID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}

		totalOwed, err := st.SumUnpaidPricesForClient(ctx, payer.ID)
		if err != nil {
			return err
		}
		if amount.Cmp(totalOwed.Div(four)) >= 0 {
			return fmt.Errorf("%w: amount %s, total jobs to pay %s", ErrDepositLimitExceeded, amount, totalOwed)
		}

		if err := st.AddToBalance(ctx, target.ID, amount); err != nil {
			return err
		}
		return st.AddToBalance(ctx, payer.ID, amount.Neg())
	})
	return wrapTransferErr(err)
}

// lockProfilePair locks both profiles in a fixed id order so two concurrent
// transfers over the same pair cannot deadlock. Returns them in argument
// order.
func lockProfilePair(ctx context.Context, st store.Store, firstID, secondID uuid.UUID) (*model.Profile, *model.Profile, error) {
	if firstID == secondID {
		p, err := st.GetProfileForUpdate(ctx, firstID)
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil
	}

	lockFirst, lockSecond := firstID, secondID
	if bytes.Compare(secondID[:], firstID[:]) < 0 {
		lockFirst, lockSecond = secondID, firstID
	}

	a, err := st.GetProfileForUpdate(ctx, lockFirst)
	if err != nil {
		return nil, nil, err
	}
	b, err := st.GetProfileForUpdate(ctx, lockSecond)
	if err != nil {
		return nil, nil, err
	}

	if a.ID == firstID {
		return a, b, nil
	}
	return b, a, nil
}

// wrapTransferErr keeps business rejections as-is and converts anything the
// storage layer produced into ErrTransferFailed.
func wrapTransferErr(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		ErrJobNotEligible,
		ErrInsufficientFunds,
		ErrDepositLimitExceeded,
		ErrNotFound,
		ErrInvalidInput,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %s", ErrTransferFailed, err)
}

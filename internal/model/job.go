package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Job is a unit of billable work under a contract. Paid flips to true at
// most once; PaidAt is set in the same transaction.
type Job struct {
	ID          uuid.UUID
	ContractID  uuid.UUID
	Description string
	Price       decimal.Decimal
	Paid        bool
	PaidAt      *time.Time
}

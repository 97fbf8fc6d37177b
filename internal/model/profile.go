package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProfileType string

const (
	ProfileTypeClient     ProfileType = "client"
	ProfileTypeContractor ProfileType = "contractor"
)

// Profile is a marketplace participant. Balance is mutated only by the
// transfer service, inside a store transaction.
type Profile struct {
	ID         uuid.UUID
	FirstName  string
	LastName   string
	Profession string
	Balance    decimal.Decimal
	Type       ProfileType
}

func (p Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}

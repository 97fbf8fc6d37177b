package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProfessionTotal is one row of the best-profession aggregation: the sum
// of paid job prices earned by contractors of one profession.
type ProfessionTotal struct {
	Profession string
	Total      decimal.Decimal
}

// ClientTotal is one row of the best-clients ranking. Balance is the
// client's live balance at query time, not a value frozen at range end.
type ClientTotal struct {
	ID         uuid.UUID
	FirstName  string
	LastName   string
	Profession string
	Type       ProfileType
	Total      decimal.Decimal
	Balance    decimal.Decimal
}

func (t ClientTotal) FullName() string {
	return t.FirstName + " " + t.LastName
}

// ClientReport wraps a best-clients ranking for file export.
type ClientReport struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Limit       int
	Clients     []ClientTotal
}

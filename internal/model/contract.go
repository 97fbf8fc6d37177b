package model

import "github.com/google/uuid"

type ContractStatus string

const (
	ContractStatusNew        ContractStatus = "new"
	ContractStatusInProgress ContractStatus = "in_progress"
	ContractStatusTerminated ContractStatus = "terminated"
)

// Contract binds one client and one contractor. Status only ever moves
// forward; nothing in the service reverses a terminated contract.
type Contract struct {
	ID           uuid.UUID
	ClientID     uuid.UUID
	ContractorID uuid.UUID
	Terms        string
	Status       ContractStatus
}

// HasParty reports whether the profile is the contract's client or contractor.
func (c Contract) HasParty(profileID uuid.UUID) bool {
	return c.ClientID == profileID || c.ContractorID == profileID
}

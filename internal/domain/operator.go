package domain

import "time"

// OperatorRole enumerates internal operator roles.
type OperatorRole string

const (
	OperatorRoleAgent OperatorRole = "AGENT"
	OperatorRoleAdmin OperatorRole = "ADMIN"
)

// Operator models a support operator who investigates complaints and drives
// pickups and resolutions.
type Operator struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         OperatorRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

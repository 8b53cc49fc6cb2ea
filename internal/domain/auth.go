package domain

import "time"

// SubjectType differentiates customer vs operator tokens.
type SubjectType string

const (
	SubjectTypeUser     SubjectType = "USER"
	SubjectTypeOperator SubjectType = "OPERATOR"
	SubjectTypeSystem   SubjectType = "SYSTEM"
)

// Token represents issued authentication token metadata.
type Token struct {
	ID        string
	SubjectID string
	Subject   SubjectType
	Role      *OperatorRole
	ExpiresAt time.Time
	IssuedAt  time.Time
}

package model

import "github.com/google/uuid"

const (
	RoleCustomer = "CUSTOMER"
	RoleProvider = "PROVIDER"
	RoleAdmin    = "ADMIN"
)

type Principal struct {
	UserID     uuid.UUID
	ProviderID *uuid.UUID
	Role       string
}

func (p Principal) IsProvider() bool {
	return p.Role == RoleProvider
}

func (p Principal) IsCustomer() bool {
	return p.Role == RoleCustomer
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

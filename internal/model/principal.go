package model

// Principal is the authenticated caller resolved from the bearer token.
type Principal struct {
	Email string
	Role  UserRole
}

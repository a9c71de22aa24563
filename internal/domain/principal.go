package domain

// Principal is the authenticated identity behind a request.
type Principal struct {
	TenantID int64
	Email    string
}

type TokenIssuer interface {
	Issue(t *Tenant) (string, error)
}

type TokenVerifier interface {
	Verify(token string) (*Principal, error)
}

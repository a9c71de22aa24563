package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Harshitk-cp/leaddesk/internal/auth"
	"github.com/Harshitk-cp/leaddesk/internal/domain"
	"github.com/Harshitk-cp/leaddesk/internal/store/storetest"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type stubIssuer struct{}

func (s *stubIssuer) Issue(t *domain.Tenant) (string, error) {
	return "token-for-" + t.Email, nil
}

func setupTenantTest() (*TenantService, *storetest.TenantStore) {
	st := storetest.NewTenantStore()
	return NewTenantService(st, &stubIssuer{}, nil, zap.NewNop()), st
}

func TestTenantService_Register(t *testing.T) {
	svc, st := setupTenantTest()
	ctx := context.Background()

	tenant, err := svc.Register(ctx, RegisterInput{
		Name:     "Financial Advisor Demo",
		Email:    "demo@x.com",
		Password: "demo123",
		Company:  "Demo Financial Services",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if tenant.ID == 0 {
		t.Fatal("expected tenant ID to be set")
	}
	stored, _ := st.Stored(tenant.ID)
	if stored.PasswordHash == "demo123" || !auth.CompareSecret(stored.PasswordHash, "demo123") {
		t.Fatal("expected password to be stored as a bcrypt hash")
	}
}

func TestTenantService_Register_Duplicate(t *testing.T) {
	svc, _ := setupTenantTest()
	ctx := context.Background()

	in := RegisterInput{Name: "A", Email: "demo@x.com", Password: "pw"}
	if _, err := svc.Register(ctx, in); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	in.Name = "B"
	_, err := svc.Register(ctx, in)
	if err != ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestTenantService_Register_EmailIsCaseSensitive(t *testing.T) {
	svc, _ := setupTenantTest()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "demo@x.com", Password: "pw"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Name: "B", Email: "Demo@x.com", Password: "pw"}); err != nil {
		t.Fatalf("expected differently-cased email to register, got %v", err)
	}
}

func TestTenantService_Register_MissingFields(t *testing.T) {
	svc, st := setupTenantTest()

	cases := []RegisterInput{
		{Email: "a@b.c", Password: "pw"},
		{Name: "A", Password: "pw"},
		{Name: "A", Email: "a@b.c"},
	}
	for _, in := range cases {
		if _, err := svc.Register(context.Background(), in); err != ErrTenantFieldsRequired {
			t.Fatalf("expected ErrTenantFieldsRequired for %+v, got %v", in, err)
		}
	}
	if st.Len() != 0 {
		t.Fatalf("expected no tenants, got %d", st.Len())
	}
}

func TestTenantService_Register_PasswordByteLimit(t *testing.T) {
	svc, st := setupTenantTest()
	ctx := context.Background()

	// 40 runes, 80 bytes
	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: strings.Repeat("é", 40)})
	if err != ErrPasswordTooLong {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	if st.Len() != 0 {
		t.Fatalf("expected no tenants, got %d", st.Len())
	}

	if _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@x.com", Password: strings.Repeat("é", 36)}); err != nil {
		t.Fatalf("expected 72-byte password to register, got %v", err)
	}
}

func TestTenantService_Login(t *testing.T) {
	svc, _ := setupTenantTest()
	ctx := context.Background()
	_, _ = svc.Register(ctx, RegisterInput{Name: "A", Email: "demo@x.com", Password: "demo123"})

	token, tenant, err := svc.Login(ctx, "demo@x.com", "demo123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token != "token-for-demo@x.com" {
		t.Fatalf("unexpected token %q", token)
	}
	if tenant.PasswordHash != "" {
		t.Fatal("expected password hash to be cleared")
	}
}

func TestTenantService_Login_InvalidCredentials(t *testing.T) {
	svc, _ := setupTenantTest()
	ctx := context.Background()
	_, _ = svc.Register(ctx, RegisterInput{Name: "A", Email: "demo@x.com", Password: "demo123"})

	cases := []struct{ email, password string }{
		{"demo@x.com", "wrong"},
		{"nobody@x.com", "demo123"},
		{"", ""},
	}
	for _, c := range cases {
		if _, _, err := svc.Login(ctx, c.email, c.password); err != ErrInvalidCredentials {
			t.Fatalf("expected ErrInvalidCredentials for %q, got %v", c.email, err)
		}
	}
}

type mockIssuer struct {
	mock.Mock
}

func (m *mockIssuer) Issue(t *domain.Tenant) (string, error) {
	args := m.Called(t)
	return args.String(0), args.Error(1)
}

func TestTenantService_Login_IssuesForStoredTenant(t *testing.T) {
	st := storetest.NewTenantStore()
	issuer := new(mockIssuer)
	svc := NewTenantService(st, issuer, nil, zap.NewNop())
	ctx := context.Background()
	created, _ := svc.Register(ctx, RegisterInput{Name: "A", Email: "demo@x.com", Password: "demo123"})

	issuer.On("Issue", mock.MatchedBy(func(tn *domain.Tenant) bool {
		return tn.ID == created.ID && tn.Email == "demo@x.com"
	})).Return("signed", nil).Once()

	token, _, err := svc.Login(ctx, "demo@x.com", "demo123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token != "signed" {
		t.Fatalf("unexpected token %q", token)
	}
	issuer.AssertExpectations(t)
}

func TestTenantService_Login_IssuerFailure(t *testing.T) {
	st := storetest.NewTenantStore()
	boom := errors.New("boom")
	issuer := new(mockIssuer)
	issuer.On("Issue", mock.Anything).Return("", boom)
	svc := NewTenantService(st, issuer, nil, zap.NewNop())
	ctx := context.Background()
	_, _ = svc.Register(ctx, RegisterInput{Name: "A", Email: "demo@x.com", Password: "demo123"})

	if _, _, err := svc.Login(ctx, "demo@x.com", "demo123"); !errors.Is(err, boom) {
		t.Fatalf("expected issuer error, got %v", err)
	}

	issuer.AssertNumberOfCalls(t, "Issue", 1)
	if _, _, err := svc.Login(ctx, "demo@x.com", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	issuer.AssertNumberOfCalls(t, "Issue", 1)
}

func TestTenantService_Login_UnknownEmailStillCompares(t *testing.T) {
	svc, _ := setupTenantTest()
	ctx := context.Background()
	_, _ = svc.Register(ctx, RegisterInput{Name: "A", Email: "demo@x.com", Password: "demo123"})

	var hashes []string
	svc.compare = func(hash, secret string) bool {
		hashes = append(hashes, hash)
		return auth.CompareSecret(hash, secret)
	}

	if _, _, err := svc.Login(ctx, "nobody@x.com", "demo123"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "demo@x.com", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if len(hashes) != 2 {
		t.Fatalf("expected a bcrypt comparison on both failures, got %d", len(hashes))
	}
	if hashes[0] != missingTenantHash() || hashes[0] == "" {
		t.Fatalf("expected unknown email to compare against the stand-in hash, got %q", hashes[0])
	}
}

func TestTenantService_GetByID(t *testing.T) {
	svc, _ := setupTenantTest()
	ctx := context.Background()
	created, _ := svc.Register(ctx, RegisterInput{Name: "A", Email: "demo@x.com", Password: "demo123"})

	found, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if found.Email != "demo@x.com" || found.PasswordHash != "" {
		t.Fatalf("unexpected tenant %+v", found)
	}

	if _, err := svc.GetByID(ctx, 999); err != ErrTenantNotFound {
		t.Fatalf("expected ErrTenantNotFound, got %v", err)
	}
}

package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Harshitk-cp/leaddesk/internal/auth"
	"github.com/Harshitk-cp/leaddesk/internal/domain"
	"github.com/Harshitk-cp/leaddesk/internal/metrics"
	"github.com/Harshitk-cp/leaddesk/internal/store"
	"go.uber.org/zap"
)

var (
	ErrTenantNotFound       = errors.New("client not found")
	ErrTenantFieldsRequired = errors.New("name, email and password are required")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrPasswordTooLong      = errors.New("password must be at most 72 bytes")
)

// maxPasswordBytes is the longest input bcrypt will hash.
const maxPasswordBytes = 72

// missingTenantHash stands in for the stored hash when a login email is
// unknown.
var missingTenantHash = sync.OnceValue(func() string {
	hash, _ := auth.HashSecret("leaddesk-missing-tenant")
	return hash
})

type TenantService struct {
	store   domain.TenantStore
	issuer  domain.TokenIssuer
	metrics *metrics.Metrics
	logger  *zap.Logger
	compare func(hash, secret string) bool
}

func NewTenantService(s domain.TenantStore, issuer domain.TokenIssuer, m *metrics.Metrics, logger *zap.Logger) *TenantService {
	return &TenantService{store: s, issuer: issuer, metrics: m, logger: logger, compare: auth.CompareSecret}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Company  string
}

func (s *TenantService) Register(ctx context.Context, in RegisterInput) (*domain.Tenant, error) {
	if strings.TrimSpace(in.Name) == "" || in.Email == "" || in.Password == "" {
		return nil, ErrTenantFieldsRequired
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	hash, err := auth.HashSecret(in.Password)
	if err != nil {
		return nil, err
	}

	t := &domain.Tenant{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Company:      in.Company,
	}
	if err := s.store.Create(ctx, t); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.logger.Info("client registered", zap.Int64("tenant_id", t.ID))
	return t, nil
}

// Login checks the credentials and returns a bearer token for the tenant.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *TenantService) Login(ctx context.Context, email, password string) (string, *domain.Tenant, error) {
	if email == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	t, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.compare(missingTenantHash(), password)
			s.metrics.RecordAuth("failure")
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !s.compare(t.PasswordHash, password) {
		s.metrics.RecordAuth("failure")
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(t)
	if err != nil {
		return "", nil, err
	}
	s.metrics.RecordAuth("success")
	t.PasswordHash = ""
	return token, t, nil
}

func (s *TenantService) GetByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	t, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return t, nil
}

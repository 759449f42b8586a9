package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/recruitd/internal/persistence"
)

// Pass credential kinds.
const (
	PassKindCandidate = "candidate"
	PassKindManager   = "manager"
)

// DefaultPassTTL bounds how long an issued pass stays valid.
const DefaultPassTTL = 14 * 24 * time.Hour

// PassRepository captures the persistence interactions needed by the service.
type PassRepository interface {
	CreateCredential(ctx context.Context, credential persistence.PassCredential) error
	GetCredential(ctx context.Context, id string) (persistence.PassCredential, error)
	RevokeCredential(ctx context.Context, id string, revokedAt time.Time) error
	DeleteExpiredCredentials(ctx context.Context, reference time.Time) error
}

// PassAccessService issues, verifies, and revokes pass credentials. Tokens
// are {credentialID}.{secret}; only the argon2id digest of the secret is
// persisted, so a leaked store never yields usable tokens.
type PassAccessService struct {
	passes      PassRepository
	ttl         time.Duration
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewPassAccessService wires dependencies for pass credential operations.
func NewPassAccessService(passes PassRepository, ttl time.Duration, idGenerator func() string, now func() time.Time, logger *slog.Logger) *PassAccessService {
	if ttl <= 0 {
		ttl = DefaultPassTTL
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &PassAccessService{
		passes:      passes,
		ttl:         ttl,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

// IssuePass mints a credential for a subject and returns its bearer token.
// The token is shown once; it cannot be reconstructed from the store.
func (s *PassAccessService) IssuePass(ctx context.Context, params IssuePassParams) (IssuedPass, error) {
	if s == nil || s.passes == nil {
		return IssuedPass{}, fmt.Errorf("pass repository not configured")
	}

	vErr := &ValidationError{}
	if params.Kind != PassKindCandidate && params.Kind != PassKindManager {
		vErr.add("kind", "must be candidate or manager")
	}
	if strings.TrimSpace(params.SubjectID) == "" {
		vErr.add("subject_id", "subject id is required")
	}
	if vErr.HasErrors() {
		return IssuedPass{}, vErr
	}

	secret, err := NewPassSecret()
	if err != nil {
		return IssuedPass{}, fmt.Errorf("generate pass secret: %w", err)
	}
	digest, err := CreateSecretDigest(secret, DefaultArgon2idParams)
	if err != nil {
		return IssuedPass{}, fmt.Errorf("digest pass secret: %w", err)
	}

	now := s.now()
	credential := persistence.PassCredential{
		ID:           s.idGenerator(),
		Kind:         params.Kind,
		SubjectID:    params.SubjectID,
		SecretDigest: digest,
		ExpiresAt:    now.Add(s.ttl),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.passes.CreateCredential(ctx, credential); err != nil {
		return IssuedPass{}, mapRequestRepoError(err)
	}

	serviceLogger(ctx, s.logger, "pass", "issue", "kind", params.Kind).
		InfoContext(ctx, "pass issued", "credential_id", credential.ID, "expires_at", credential.ExpiresAt)

	return IssuedPass{
		CredentialID: credential.ID,
		Token:        EncodeToken(credential.ID, secret),
		ExpiresAt:    credential.ExpiresAt,
	}, nil
}

// RegisterCandidatePass issues a candidate pass and returns its credential ID
// as the candidate-facing pass number. Implements PassRegistrar.
func (s *PassAccessService) RegisterCandidatePass(ctx context.Context, candidateID string) (string, error) {
	issued, err := s.IssuePass(ctx, IssuePassParams{Kind: PassKindCandidate, SubjectID: candidateID})
	if err != nil {
		return "", err
	}
	return issued.CredentialID, nil
}

// Verify resolves a bearer token to the subject it grants access to. Every
// failure mode collapses into ErrUnauthorized so callers learn nothing about
// which check failed.
func (s *PassAccessService) Verify(ctx context.Context, token string) (PassIdentity, error) {
	if s == nil || s.passes == nil {
		return PassIdentity{}, fmt.Errorf("pass repository not configured")
	}

	credentialID, secret, ok := DecodeToken(token)
	if !ok {
		return PassIdentity{}, ErrUnauthorized
	}

	credential, err := s.passes.GetCredential(ctx, credentialID)
	if errors.Is(err, persistence.ErrNotFound) {
		return PassIdentity{}, ErrUnauthorized
	}
	if err != nil {
		return PassIdentity{}, err
	}

	now := s.now()
	if credential.RevokedAt != nil || !credential.ExpiresAt.After(now) {
		return PassIdentity{}, ErrUnauthorized
	}
	if err := VerifySecret(credential.SecretDigest, secret); err != nil {
		return PassIdentity{}, ErrUnauthorized
	}

	return PassIdentity{
		CredentialID: credential.ID,
		Kind:         credential.Kind,
		SubjectID:    credential.SubjectID,
	}, nil
}

// RevokePass invalidates a credential immediately.
func (s *PassAccessService) RevokePass(ctx context.Context, credentialID string) error {
	if s == nil || s.passes == nil {
		return fmt.Errorf("pass repository not configured")
	}

	if err := s.passes.RevokeCredential(ctx, credentialID, s.now()); err != nil {
		return mapRequestRepoError(err)
	}

	serviceLogger(ctx, s.logger, "pass", "revoke").
		InfoContext(ctx, "pass revoked", "credential_id", credentialID)
	return nil
}

// PurgeExpired removes credentials past their expiry.
func (s *PassAccessService) PurgeExpired(ctx context.Context) error {
	if s == nil || s.passes == nil {
		return fmt.Errorf("pass repository not configured")
	}
	return s.passes.DeleteExpiredCredentials(ctx, s.now())
}

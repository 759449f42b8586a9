package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/example/recruitd/internal/persistence"
)

type passRepoStub struct {
	credentials map[string]persistence.PassCredential
	createErr   error
	purged      bool
}

func newPassRepoStub() *passRepoStub {
	return &passRepoStub{credentials: make(map[string]persistence.PassCredential)}
}

func (s *passRepoStub) CreateCredential(ctx context.Context, credential persistence.PassCredential) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.credentials[credential.ID] = credential
	return nil
}

func (s *passRepoStub) GetCredential(ctx context.Context, id string) (persistence.PassCredential, error) {
	credential, ok := s.credentials[id]
	if !ok {
		return persistence.PassCredential{}, persistence.ErrNotFound
	}
	return credential, nil
}

func (s *passRepoStub) RevokeCredential(ctx context.Context, id string, revokedAt time.Time) error {
	credential, ok := s.credentials[id]
	if !ok {
		return persistence.ErrNotFound
	}
	if credential.RevokedAt == nil {
		credential.RevokedAt = &revokedAt
		s.credentials[id] = credential
	}
	return nil
}

func (s *passRepoStub) DeleteExpiredCredentials(ctx context.Context, reference time.Time) error {
	s.purged = true
	for id, credential := range s.credentials {
		if credential.ExpiresAt.Before(reference) {
			delete(s.credentials, id)
		}
	}
	return nil
}

func newTestPassService(repo *passRepoStub, now func() time.Time) *PassAccessService {
	return NewPassAccessService(repo, DefaultPassTTL, sequenceIDs("cred"), now, nil)
}

func TestPassAccessService_IssuePass(t *testing.T) {
	t.Run("validates kind and subject", func(t *testing.T) {
		svc := newTestPassService(newPassRepoStub(), fixedNow)

		_, err := svc.IssuePass(context.Background(), IssuePassParams{Kind: "visitor"})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["kind"]; !ok {
			t.Fatalf("expected kind validation error, got %v", vErr.FieldErrors)
		}
		if _, ok := vErr.FieldErrors["subject_id"]; !ok {
			t.Fatalf("expected subject_id validation error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("stores only the secret digest", func(t *testing.T) {
		repo := newPassRepoStub()
		svc := newTestPassService(repo, fixedNow)

		issued, err := svc.IssuePass(context.Background(), IssuePassParams{Kind: PassKindCandidate, SubjectID: "cand-1"})
		if err != nil {
			t.Fatalf("IssuePass failed: %v", err)
		}

		if !issued.ExpiresAt.Equal(testTime.Add(DefaultPassTTL)) {
			t.Fatalf("unexpected expiry: %v", issued.ExpiresAt)
		}
		id, secret, ok := DecodeToken(issued.Token)
		if !ok || id != issued.CredentialID {
			t.Fatalf("token does not decode to the credential: %q", issued.Token)
		}

		stored := repo.credentials[issued.CredentialID]
		if stored.SecretDigest == "" || strings.Contains(stored.SecretDigest, secret) {
			t.Fatalf("expected digest, not the plain secret, in the store")
		}
		if err := VerifySecret(stored.SecretDigest, secret); err != nil {
			t.Fatalf("stored digest does not verify the secret: %v", err)
		}
	})
}

func TestPassAccessService_Verify(t *testing.T) {
	issue := func(t *testing.T, svc *PassAccessService) IssuedPass {
		t.Helper()
		issued, err := svc.IssuePass(context.Background(), IssuePassParams{Kind: PassKindManager, SubjectID: "req-1"})
		if err != nil {
			t.Fatalf("IssuePass failed: %v", err)
		}
		return issued
	}

	t.Run("resolves a valid token", func(t *testing.T) {
		svc := newTestPassService(newPassRepoStub(), fixedNow)
		issued := issue(t, svc)

		identity, err := svc.Verify(context.Background(), issued.Token)
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		if identity.Kind != PassKindManager || identity.SubjectID != "req-1" {
			t.Fatalf("unexpected identity: %#v", identity)
		}
	})

	t.Run("malformed tokens are unauthorized", func(t *testing.T) {
		svc := newTestPassService(newPassRepoStub(), fixedNow)

		for _, token := range []string{"", "no-separator", ".leading", "trailing."} {
			if _, err := svc.Verify(context.Background(), token); !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized for %q, got %v", token, err)
			}
		}
	})

	t.Run("unknown credential is unauthorized", func(t *testing.T) {
		svc := newTestPassService(newPassRepoStub(), fixedNow)

		_, err := svc.Verify(context.Background(), "ghost.secret")
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("wrong secret is unauthorized", func(t *testing.T) {
		svc := newTestPassService(newPassRepoStub(), fixedNow)
		issued := issue(t, svc)

		_, err := svc.Verify(context.Background(), EncodeToken(issued.CredentialID, "forged"))
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("expired credentials are unauthorized", func(t *testing.T) {
		current := testTime
		svc := newTestPassService(newPassRepoStub(), func() time.Time { return current })
		issued := issue(t, svc)

		current = testTime.Add(DefaultPassTTL + time.Minute)
		_, err := svc.Verify(context.Background(), issued.Token)
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized after expiry, got %v", err)
		}
	})

	t.Run("revoked credentials are unauthorized", func(t *testing.T) {
		svc := newTestPassService(newPassRepoStub(), fixedNow)
		issued := issue(t, svc)

		if err := svc.RevokePass(context.Background(), issued.CredentialID); err != nil {
			t.Fatalf("RevokePass failed: %v", err)
		}
		_, err := svc.Verify(context.Background(), issued.Token)
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized after revocation, got %v", err)
		}
	})
}

func TestPassAccessService_RegisterCandidatePass(t *testing.T) {
	repo := newPassRepoStub()
	svc := newTestPassService(repo, fixedNow)

	passNumber, err := svc.RegisterCandidatePass(context.Background(), "cand-1")
	if err != nil {
		t.Fatalf("RegisterCandidatePass failed: %v", err)
	}

	stored, ok := repo.credentials[passNumber]
	if !ok {
		t.Fatalf("expected credential %q persisted", passNumber)
	}
	if stored.Kind != PassKindCandidate || stored.SubjectID != "cand-1" {
		t.Fatalf("unexpected credential: %#v", stored)
	}
}

func TestPassAccessService_PurgeExpired(t *testing.T) {
	current := testTime
	repo := newPassRepoStub()
	svc := newTestPassService(repo, func() time.Time { return current })

	issued, err := svc.IssuePass(context.Background(), IssuePassParams{Kind: PassKindCandidate, SubjectID: "cand-1"})
	if err != nil {
		t.Fatalf("IssuePass failed: %v", err)
	}

	current = testTime.Add(DefaultPassTTL + time.Hour)
	if err := svc.PurgeExpired(context.Background()); err != nil {
		t.Fatalf("PurgeExpired failed: %v", err)
	}
	if !repo.purged {
		t.Fatalf("expected purge to reach the repository")
	}
	if _, ok := repo.credentials[issued.CredentialID]; ok {
		t.Fatalf("expected expired credential removed")
	}
}

package credentials_test

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-credentials"
)

// MockUsers implements credentials.Users. The generic repository methods are
// not used by the identity manager and stay unimplemented.
type MockUsers struct {
	repository.Repository[*credentials.User]
	mock.Mock
}

func (m *MockUsers) Insert(ctx context.Context, record *credentials.User) (uuid.UUID, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockUsers) FindByEmail(ctx context.Context, email string) (*credentials.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentials.User), args.Error(1)
}

func (m *MockUsers) FindByID(ctx context.Context, id uuid.UUID) (*credentials.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentials.User), args.Error(1)
}

func (m *MockUsers) UpdateByID(ctx context.Context, id uuid.UUID, patch credentials.UserPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockUsers) DeleteByID(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUsers) ListAll(ctx context.Context) ([]*credentials.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*credentials.User), args.Error(1)
}

// MockTokenService implements credentials.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Issue(identity credentials.Identity) (string, error) {
	args := m.Called(identity)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Verify(token string) (*credentials.JWTClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentials.JWTClaims), args.Error(1)
}

// recordingSink collects activity events
type recordingSink struct {
	events []credentials.ActivityEvent
}

func (s *recordingSink) Record(_ context.Context, event credentials.ActivityEvent) error {
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) types() []credentials.ActivityEventType {
	out := make([]credentials.ActivityEventType, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.EventType)
	}
	return out
}

// nopLogger discards everything
// warnLogger keeps the messages logged at warn level
type warnLogger struct {
	nopLogger
	warnings []string
}

func (l *warnLogger) Warn(msg string, _ ...any) {
	l.warnings = append(l.warnings, msg)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func assertIsError(t *testing.T, err error, target *goerrors.Error) bool {
	t.Helper()
	richErr, _ := credentials.AsError(err)
	return assert.Truef(t, credentials.IsError(err, target),
		"expected %s, got %s (%v)", target.TextCode, richErr.TextCode, err)
}

func requireIsError(t *testing.T, err error, target *goerrors.Error) {
	t.Helper()
	if !assertIsError(t, err, target) {
		t.FailNow()
	}
}

// errorSource returns the source of the rich error carried by err
func errorSource(t *testing.T, err error) error {
	t.Helper()
	richErr, ok := credentials.AsError(err)
	require.True(t, ok, "expected a rich error, got %v", err)
	return richErr.Source
}

package credentials

import (
	"context"
	"net/http"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// LogoutMessage is returned by Logout. Tokens are stateless so the client discards its own.
const LogoutMessage = "Please delete the token on the client"

// LoginResult is returned by a successful Login
type LoginResult struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

// Acknowledgement is returned by operations that have no payload
type Acknowledgement struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// IdentityManager orchestrates registration, login and profile management
// over the user record store.
type IdentityManager struct {
	users     Users
	tokens    TokenService
	hasher    PasswordHasher
	logger    Logger
	activity  ActivitySink
	useHashid bool
	hashidOps []hashid.Option
	now       func() time.Time
}

type IdentityManagerOption func(*IdentityManager)

// WithHasher sets the password hasher
func WithHasher(hasher PasswordHasher) IdentityManagerOption {
	return func(m *IdentityManager) {
		if hasher != nil {
			m.hasher = hasher
		}
	}
}

// WithManagerLogger sets the logger
func WithManagerLogger(logger Logger) IdentityManagerOption {
	return func(m *IdentityManager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func WithActivitySink(sink ActivitySink) IdentityManagerOption {
	return func(m *IdentityManager) {
		m.activity = normalizeActivitySink(sink)
	}
}

// WithHashidIDs derives new record ids from the email address
func WithHashidIDs(enabled bool) IdentityManagerOption {
	return func(m *IdentityManager) {
		m.useHashid = enabled
	}
}

// WithHashidOptions configures how ids are derived when hashid ids are enabled
func WithHashidOptions(opts ...hashid.Option) IdentityManagerOption {
	return func(m *IdentityManager) {
		m.hashidOps = append(m.hashidOps, opts...)
	}
}

// WithManagerClock injects a custom clock for activity timestamps
func WithManagerClock(now func() time.Time) IdentityManagerOption {
	return func(m *IdentityManager) {
		if now != nil {
			m.now = now
		}
	}
}

func NewIdentityManager(users Users, tokens TokenService, opts ...IdentityManagerOption) *IdentityManager {
	m := &IdentityManager{
		users:    users,
		tokens:   tokens,
		hasher:   NewHMACHasher(),
		logger:   defLogger{},
		activity: noopActivitySink{},
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Register creates a new USER record and returns its id
func (m *IdentityManager) Register(ctx context.Context, input RegisterInput) (uuid.UUID, error) {
	if err := validationError(input.Validate()); err != nil {
		return uuid.Nil, err
	}

	// the unique index is authoritative; this lookup only gives the common case a clean answer
	if _, err := m.users.FindByEmail(ctx, input.Email); err == nil {
		return uuid.Nil, ErrDuplicateEmail
	} else if !IsError(err, ErrUserNotFound) {
		return uuid.Nil, m.storeError("register lookup", err)
	}

	salt, err := m.hasher.NewSalt()
	if err != nil {
		m.logger.Error("register failed to generate salt", "error", err)
		return uuid.Nil, err
	}

	record := &User{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		Role:           RoleUser,
		Salt:           salt,
		PasswordDigest: m.hasher.HashPassword(input.Password, salt),
	}

	if m.useHashid {
		id, err := hashid.NewUUID(input.Email, m.hashidOps...)
		if err != nil {
			m.logger.Warn("register could not derive hashid, using random id", "error", err)
		} else {
			record.ID = id
		}
	}

	id, err := m.users.Insert(ctx, record)
	if err != nil {
		return uuid.Nil, m.storeError("register insert", err)
	}

	m.emit(ctx, ActivityEventUserRegistered, "", id.String(), map[string]any{
		"email": input.Email,
	})

	return id, nil
}

// Login checks the credentials and issues a session token
func (m *IdentityManager) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if err := validationError(input.Validate()); err != nil {
		return nil, err
	}

	user, err := m.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if IsError(err, ErrUserNotFound) {
			m.emit(ctx, ActivityEventLoginFailure, "", "", map[string]any{
				"email":  input.Email,
				"reason": TextCodeUserNotFound,
			})
			return nil, ErrUserNotFound
		}
		return nil, m.storeError("login lookup", err)
	}

	if err := m.hasher.ComparePasswordAndHash(input.Password, user.Salt, user.PasswordDigest); err != nil {
		m.logger.Debug("login password mismatch", "user_id", user.ID.String())
		m.emit(ctx, ActivityEventLoginFailure, "", user.ID.String(), map[string]any{
			"email":  input.Email,
			"reason": TextCodeInvalidCredentials,
		})
		return nil, wrapError(ErrInvalidCredentials, err)
	}

	token, err := m.tokens.Issue(user.Identity())
	if err != nil {
		return nil, m.storeError("login issue token", err)
	}

	m.emit(ctx, ActivityEventLoginSuccess, user.ID.String(), user.ID.String(), nil)

	return &LoginResult{
		UserID: user.ID.String(),
		Token:  token,
	}, nil
}

// Logout is a stateless acknowledgement; no server side state changes
func (m *IdentityManager) Logout() Acknowledgement {
	return Acknowledgement{
		Status:  "Logged out",
		Message: LogoutMessage,
	}
}

// GetProfile returns the identity carried by the verified token. It reflects
// the token's issuance time, not the current store state.
func (m *IdentityManager) GetProfile(claims AuthClaims) (Identity, error) {
	if err := CheckAuthenticated(claims); err != nil {
		return Identity{}, err
	}
	return claims.Identity(), nil
}

// UpdateProfile applies the fields present in input to the caller's record.
// A password change generates a fresh salt along with the new digest.
func (m *IdentityManager) UpdateProfile(ctx context.Context, claims AuthClaims, input UpdateProfileInput) error {
	if err := CheckAuthenticated(claims); err != nil {
		return err
	}

	if err := validationError(input.Validate()); err != nil {
		return err
	}

	if input.IsEmpty() {
		return ErrNoFieldsProvided
	}

	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		return wrapError(ErrUnauthorized, err)
	}

	patch := UserPatch{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
	}

	if input.Password != nil {
		salt, err := m.hasher.NewSalt()
		if err != nil {
			m.logger.Error("update profile failed to generate salt", "error", err)
			return err
		}
		digest := m.hasher.HashPassword(*input.Password, salt)
		patch.Salt = &salt
		patch.PasswordDigest = &digest
	}

	if err := m.users.UpdateByID(ctx, id, patch); err != nil {
		return m.storeError("update profile", err)
	}

	m.emit(ctx, ActivityEventProfileUpdated, id.String(), id.String(), map[string]any{
		"fields":           len(patch.columns()),
		"password_changed": input.Password != nil,
	})

	return nil
}

// ListAllUsers returns every record, without pagination
func (m *IdentityManager) ListAllUsers(ctx context.Context) ([]*User, error) {
	records, err := m.users.ListAll(ctx)
	if err != nil {
		return nil, m.storeError("list users", err)
	}
	return records, nil
}

// DeleteUser removes the record with the given id and echoes the id back.
// Unknown or malformed ids succeed without touching the store.
func (m *IdentityManager) DeleteUser(ctx context.Context, userID string) (string, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		m.logger.Debug("delete user ignoring malformed id", "user_id", userID)
		return userID, nil
	}

	if err := m.users.DeleteByID(ctx, id); err != nil {
		return "", m.storeError("delete user", err)
	}

	actorID := ""
	if claims, ok := GetClaims(ctx); ok {
		actorID = claims.UserID()
	}
	m.emit(ctx, ActivityEventUserDeleted, actorID, userID, nil)

	return userID, nil
}

// storeError passes client facing rich errors through and hides everything
// else behind ErrInternal
func (m *IdentityManager) storeError(op string, err error) error {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.Code > 0 && richErr.Code < http.StatusInternalServerError {
		return richErr
	}
	m.logger.Error(op+" failed", "error", err)
	return wrapError(ErrInternal, err)
}

func (m *IdentityManager) emit(ctx context.Context, eventType ActivityEventType, actorID, userID string, metadata map[string]any) {
	event := ActivityEvent{
		EventType:  eventType,
		ActorID:    actorID,
		UserID:     userID,
		Metadata:   metadata,
		OccurredAt: m.now(),
	}
	if err := m.activity.Record(ctx, event); err != nil {
		m.logger.Warn("activity sink failed", "event", string(eventType), "error", err)
	}
}

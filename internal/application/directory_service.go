package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/room-reservation/internal/persistence"
)

// DirectoryRepository captures the persistence operations needed by the
// directory service.
type DirectoryRepository interface {
	CreateUser(ctx context.Context, creds Credentials) error
	GetCredentialsByUsername(ctx context.Context, username string) (Credentials, error)
}

// AuditLog is the shared append-only action log. It is created once at
// wiring time and injected into every service that records actions.
type AuditLog interface {
	Append(ctx context.Context, message string) (AuditEntry, error)
	Entries(ctx context.Context) ([]AuditEntry, error)
}

// DirectoryService registers accounts and authenticates users by exact
// credential match.
type DirectoryService struct {
	users       DirectoryRepository
	audit       AuditLog
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewDirectoryService constructs a directory service with the provided dependencies.
func NewDirectoryService(users DirectoryRepository, audit AuditLog, idGenerator func() string, now func() time.Time) *DirectoryService {
	return NewDirectoryServiceWithLogger(users, audit, idGenerator, now, nil)
}

// NewDirectoryServiceWithLogger constructs a directory service with a specified logger.
func NewDirectoryServiceWithLogger(users DirectoryRepository, audit AuditLog, idGenerator func() string, now func() time.Time, logger *slog.Logger) *DirectoryService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &DirectoryService{
		users:       users,
		audit:       audit,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *DirectoryService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "DirectoryService", operation, attrs...)
}

// SignUp registers a new account. A taken username leaves the stored entity
// untouched and reports ErrDuplicateUsername.
func (s *DirectoryService) SignUp(ctx context.Context, params SignUpParams) (user User, err error) {
	if s == nil {
		err = fmt.Errorf("DirectoryService is nil")
		return
	}
	if s.users == nil {
		err = fmt.Errorf("directory repository not configured")
		return
	}

	username := strings.TrimSpace(params.Username)

	logger := s.loggerWith(ctx, "SignUp",
		"username", username,
		"role", string(params.Role),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "sign-up failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", user.ID).InfoContext(ctx, "user signed up")
	}()

	vErr := &ValidationError{}
	if username == "" {
		vErr.add("username", "username is required")
	}
	if params.Secret == "" {
		vErr.add("secret", "secret is required")
	}
	if !params.Role.Valid() {
		vErr.add("role", "role must be user, manager, or admin")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if _, lookupErr := s.users.GetCredentialsByUsername(ctx, username); lookupErr == nil {
		err = ErrDuplicateUsername
		return
	} else if !isNotFound(lookupErr) {
		err = lookupErr
		return
	}

	user = User{
		ID:        s.idGenerator(),
		Username:  username,
		Role:      params.Role,
		CreatedAt: s.now(),
	}

	if createErr := s.users.CreateUser(ctx, Credentials{User: user, Secret: params.Secret}); createErr != nil {
		user = User{}
		if errors.Is(createErr, persistence.ErrDuplicate) {
			err = ErrDuplicateUsername
			return
		}
		err = createErr
		return
	}

	err = s.appendAudit(ctx, fmt.Sprintf("%s %s signed up", user.Role, user.Username))
	return
}

// Login returns the stored identity when the username exists and the supplied
// secret exactly matches the stored one. The comparison is case-sensitive and
// unhashed.
func (s *DirectoryService) Login(ctx context.Context, username, secret string) (user User, err error) {
	if s == nil {
		err = fmt.Errorf("DirectoryService is nil")
		return
	}
	if s.users == nil {
		err = fmt.Errorf("directory repository not configured")
		return
	}

	username = strings.TrimSpace(username)

	logger := s.loggerWith(ctx, "Login",
		"username", username,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "login failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", user.ID).InfoContext(ctx, "user logged in")
	}()

	creds, lookupErr := s.users.GetCredentialsByUsername(ctx, username)
	if lookupErr != nil {
		if isNotFound(lookupErr) {
			err = ErrUserNotFound
			return
		}
		err = lookupErr
		return
	}

	if creds.Secret != secret {
		err = ErrInvalidCredential
		return
	}

	user = creds.User
	err = s.appendAudit(ctx, fmt.Sprintf("%s logged in", user.Username))
	if err != nil {
		user = User{}
	}
	return
}

// ScanQRCode records that a user joined a room by QR code. It has no state
// effect and does not touch the audit log; the notification text is returned
// for the caller to present.
func (s *DirectoryService) ScanQRCode(ctx context.Context, user User) string {
	message := fmt.Sprintf("%s scanned a QR code to join a room", user.Username)
	if s != nil {
		s.loggerWith(ctx, "ScanQRCode", "username", user.Username).InfoContext(ctx, "qr code scanned")
	}
	return message
}

func (s *DirectoryService) appendAudit(ctx context.Context, message string) error {
	if s.audit == nil {
		return nil
	}
	if _, err := s.audit.Append(ctx, message); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrRoomNotRegistered) ||
		errors.Is(err, persistence.ErrNotFound)
}

package users

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// resetSecretBytes is the entropy for generated reset secrets.
const resetSecretBytes = 8

// mutationTimeout bounds multi-step directory mutations.
const mutationTimeout = 10 * time.Second

// Directory is the business-logic layer of the user core: lookups,
// paginated listings, creation with uniqueness enforcement, role-aware
// mutation, credential changes, and password-reset issuance. Every
// protected operation is authorized through the Guard before it touches
// the store.
type Directory struct {
	repo     RepositoryManager
	guard    *Guard
	hasher   PasswordAuthenticator
	secrets  SecretGenerator
	mailer   SecretSender
	activity ActivitySink
	logger   Logger
}

// NewDirectory returns a Directory with the default guard policies, bcrypt
// credentials, and no-op delivery and audit collaborators.
func NewDirectory(repo RepositoryManager) *Directory {
	hasher := BcryptHasher{}
	return &Directory{
		repo:     repo,
		guard:    DefaultGuard(),
		hasher:   hasher,
		secrets:  hasher,
		mailer:   noopSecretSender{},
		activity: noopActivitySink{},
		logger:   defLogger{},
	}
}

func (d *Directory) WithGuard(guard *Guard) *Directory {
	if guard != nil {
		d.guard = guard
	}
	return d
}

func (d *Directory) WithHasher(hasher PasswordAuthenticator) *Directory {
	if hasher != nil {
		d.hasher = hasher
	}
	return d
}

func (d *Directory) WithSecretGenerator(secrets SecretGenerator) *Directory {
	if secrets != nil {
		d.secrets = secrets
	}
	return d
}

func (d *Directory) WithMailer(mailer SecretSender) *Directory {
	if mailer != nil {
		d.mailer = mailer
	}
	return d
}

func (d *Directory) WithActivitySink(sink ActivitySink) *Directory {
	d.activity = normalizeActivitySink(sink)
	return d
}

func (d *Directory) WithLogger(logger Logger) *Directory {
	if logger != nil {
		d.logger = logger
	}
	return d
}

// record hands the event to the audit sink; a failing sink never fails the
// operation that produced the event.
func (d *Directory) record(ctx context.Context, event ActivityEvent) {
	if err := d.activity.Record(ctx, event); err != nil {
		d.logger.Warn("activity sink rejected event", "event_type", event.EventType, "error", err)
	}
}

// FindOne looks up a single user by email or id, with linked profile
// associations loaded. Absence is not an error: callers that tolerate a
// missing record receive (nil, nil).
func (d *Directory) FindOne(ctx context.Context, identifier string) (*User, error) {
	user, err := d.repo.Users().GetByIdentifier(ctx, identifier)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up user")
	}
	return user, nil
}

// List returns the filtered, sorted page of users visible to the acting
// identity. The actor's own record is always excluded.
func (d *Directory) List(ctx context.Context, args UserFindArgs) (PaginationResult[UserListItem], error) {
	var empty PaginationResult[UserListItem]

	actor, err := d.guard.Authorize(ctx, OpListUsers)
	if err != nil {
		return empty, err
	}

	if err := args.Validate(); err != nil {
		return empty, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid listing arguments")
	}

	args = args.normalized()

	items, count, err := d.repo.Users().List(ctx, args, actor.ID)
	if err != nil {
		return empty, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list users")
	}

	return NewPaginationResult(items, count, args.Offset, args.Limit), nil
}

// Create registers a new account. The email must not belong to an active
// account; losing a create race to a concurrent insert also surfaces as
// ErrEmailTaken. The credential is hashed before anything is persisted.
func (d *Directory) Create(ctx context.Context, input CreateUserInput) (*User, error) {
	actor, err := d.guard.Authorize(ctx, OpCreateUser)
	if err != nil {
		return nil, err
	}

	if err := input.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid user payload")
	}

	ctx, cancel := context.WithTimeout(ctx, mutationTimeout)
	defer cancel()

	user := &User{}

	err = d.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		existing, err := d.repo.Users().GetByEmailTx(ctx, tx, input.Email)
		if err != nil && !goerrors.IsNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check email uniqueness")
		}
		if existing != nil {
			return ErrEmailTaken
		}

		hash, err := d.hasher.HashPassword(input.Password)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user.Email = input.Email
		user.FullName = input.FullName
		user.PasswordHash = hash
		user.Roles = append([]UserRole{}, input.Roles...)
		user.IsActive = true
		user.EnsureRoles()

		if input.UseHashid {
			if id, err := hashid.NewUUID(input.Email); err == nil {
				user.ID = id
			}
		}

		if user, err = d.repo.Users().CreateTx(ctx, tx, user); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user creation transaction failed")
	}

	d.logger.Info("user created", "user_id", user.ID, "email", user.Email)
	d.record(ctx, newActivityEvent(ActivityEventUserCreated, actor.ID, user.ID, map[string]any{
		"email": user.Email,
	}))

	projection := *user
	projection.PasswordHash = ""
	return &projection, nil
}

// Update persists the supplied fields of the target account. Role changes
// run through the escalation guard against the acting identity's live
// roles: a manager granting admin is rejected regardless of the coarse
// role check.
func (d *Directory) Update(ctx context.Context, targetID uuid.UUID, input UpdateUserInput) error {
	actor, err := d.guard.Authorize(ctx, OpUpdateUser)
	if err != nil {
		return err
	}

	if err := input.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid update payload")
	}

	if err := CanAssignRoles(actor, input.Roles); err != nil {
		return err
	}

	if input.isEmpty() {
		return nil
	}

	record := &User{ID: targetID}
	columns := []string{}

	if input.FullName != "" {
		record.FullName = input.FullName
		columns = append(columns, "full_name")
	}
	if input.Roles != nil {
		record.Roles = append([]UserRole{}, input.Roles...)
		record.EnsureRoles()
		columns = append(columns, "roles")
	}
	if input.IsActive != nil {
		record.IsActive = *input.IsActive
		columns = append(columns, "is_active")
	}

	if _, err := d.repo.Users().Update(ctx, record, columns...); err != nil {
		if goerrors.IsNotFound(err) {
			return ErrUserNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update user")
	}

	d.record(ctx, newActivityEvent(ActivityEventUserUpdated, actor.ID, targetID, map[string]any{
		"columns": columns,
	}))

	return nil
}

// Delete removes the target account. Deleting an id that does not exist is
// treated as already done, not as an error.
func (d *Directory) Delete(ctx context.Context, targetID uuid.UUID) error {
	actor, err := d.guard.Authorize(ctx, OpDeleteUser)
	if err != nil {
		return err
	}

	if err := d.repo.Users().Delete(ctx, targetID); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete user")
	}

	d.record(ctx, newActivityEvent(ActivityEventUserDeleted, actor.ID, targetID, nil))

	return nil
}

// ChangePassword rotates the current identity's credential. The old secret
// must verify against the stored hash and the new secret must differ from
// the old one; both violations are authorization failures, not validation
// errors, so the transport maps them to a 403.
func (d *Directory) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	identity, err := d.guard.Authorize(ctx, OpChangePassword)
	if err != nil {
		return err
	}

	if err := input.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password payload")
	}

	user, err := d.repo.Users().GetByID(ctx, identity.ID.String())
	if err != nil {
		if goerrors.IsNotFound(err) {
			return ErrUserNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve current user")
	}

	if err := d.hasher.ComparePasswordAndHash(input.OldPassword, user.PasswordHash); err != nil {
		return ErrMismatchedHashAndPassword
	}

	if input.NewPassword == input.OldPassword {
		return ErrPasswordReuse
	}

	hash, err := d.hasher.HashPassword(input.NewPassword)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	if err := d.repo.Users().SetPassword(ctx, identity.ID, hash); err != nil {
		if goerrors.IsNotFound(err) {
			return ErrUserNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist new password")
	}

	d.logger.Info("password changed", "user_id", identity.ID)
	d.record(ctx, newActivityEvent(ActivityEventPasswordChanged, identity.ID, identity.ID, nil))

	return nil
}

// UpdateProfile applies allowed profile fields to the current identity. No
// role is required beyond being authenticated.
func (d *Directory) UpdateProfile(ctx context.Context, input UpdateProfileInput) error {
	identity, err := d.guard.Authorize(ctx, OpUpdateProfile)
	if err != nil {
		return err
	}

	if err := input.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid profile payload")
	}

	record := &User{ID: identity.ID, FullName: input.FullName}

	if _, err := d.repo.Users().Update(ctx, record, "full_name"); err != nil {
		if goerrors.IsNotFound(err) {
			return ErrUserNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update profile")
	}

	return nil
}

// ConfirmUser marks an account as confirmed (or unconfirmed). Both the
// confirmation flag and the verified flag track the transition.
func (d *Directory) ConfirmUser(ctx context.Context, email string, confirmed bool) (*User, error) {
	actor, err := d.guard.Authorize(ctx, OpConfirmUser)
	if err != nil {
		return nil, err
	}

	user, err := d.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve user")
	}

	user.IsConfirmed = confirmed
	user.Verified = confirmed

	if _, err := d.repo.Users().Update(ctx, user, "is_confirmed", "verified"); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist confirmation")
	}

	d.record(ctx, newActivityEvent(ActivityEventUserConfirmed, actor.ID, user.ID, map[string]any{
		"confirmed": confirmed,
	}))

	projection := *user
	projection.PasswordHash = ""
	return &projection, nil
}

// ForgotPassword issues a new random credential for the account behind
// email: the secret is hashed and persisted, then the plaintext is handed
// to the delivery collaborator exactly once. The plaintext never reaches
// logs or the store. Delivery is fire-and-forget: a delivery failure is
// logged but does not undo the reset.
func (d *Directory) ForgotPassword(ctx context.Context, email string) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during password reset")
	default:
	}

	user, err := d.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return ErrUserNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve user")
	}

	secret, err := d.secrets.RandomSecret(resetSecretBytes)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate reset secret")
	}

	hash, err := d.hasher.HashPassword(secret)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash reset secret")
	}

	if err := d.repo.Users().SetPassword(ctx, user.ID, hash); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist reset secret")
	}

	if err := d.mailer.SendNewSecret(ctx, email, secret); err != nil {
		d.logger.Error("reset secret delivery failed", "email", email, "error", err)
	}

	d.logger.Info("password reset issued", "user_id", user.ID)
	d.record(ctx, newActivityEvent(ActivityEventPasswordReset, uuid.Nil, user.ID, nil))

	return nil
}

type noopSecretSender struct{}

func (noopSecretSender) SendNewSecret(ctx context.Context, email, plaintextSecret string) error {
	return nil
}

// Package identity resolves the current session to a user profile and
// owns the auth flows: sign-up, sign-in, verification and recovery.
package identity

import (
	"context"
	"log/slog"
	"sync"

	"snapgram/internal/core"
)

type NewUser struct {
	Name     string
	Username string
	Email    string
	Password string
}

// Resolver caches the current user snapshot and verification flag. The
// cache is process-wide: written here, read by everything else.
type Resolver struct {
	Logger   *slog.Logger
	Config   *core.Config
	Accounts core.AccountProvider
	Docs     core.DocumentStore
	Avatars  core.AvatarProvider

	mu            sync.RWMutex
	user          core.User
	authenticated bool
	emailVerified bool
}

func (r *Resolver) Init(_ context.Context) error {
	r.Logger = r.Logger.With("component", "identity.Resolver")
	return nil
}

// CheckAuthUser resolves the session's account, then the profile
// document by account id, and caches both. Any failure means "not
// authenticated" and returns false, never an error.
func (r *Resolver) CheckAuthUser(ctx context.Context) bool {
	account, err := r.Accounts.GetAccount(ctx)
	if err != nil {
		r.Logger.Debug("resolving session account", "error", err)
		r.reset()
		return false
	}

	list, err := r.Docs.ListDocuments(ctx, core.CollectionUsers,
		core.Equal("accountId", account.ID),
	)
	if err != nil || len(list.Documents) == 0 {
		r.Logger.Debug("resolving profile for account", "accountId", account.ID, "error", err)
		r.reset()
		return false
	}

	user := core.UserFromDocument(list.Documents[0])

	r.mu.Lock()
	r.user = user
	r.authenticated = true
	r.emailVerified = account.EmailVerified
	r.mu.Unlock()

	return true
}

// CurrentUser returns the cached snapshot; zero value when signed out.
func (r *Resolver) CurrentUser() (core.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.user, r.authenticated
}

// EmailVerified reports the cached verification flag.
func (r *Resolver) EmailVerified() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.emailVerified
}

// SignUp creates the account, gives it an initials avatar and persists
// the profile document.
func (r *Resolver) SignUp(ctx context.Context, user NewUser) (*core.User, error) {
	account, err := r.Accounts.CreateAccount(ctx, user.Email, user.Password, user.Name)
	if err != nil {
		return nil, err
	}

	doc, err := r.Docs.CreateDocument(ctx, core.CollectionUsers, core.NewID(), map[string]any{
		"accountId": account.ID,
		"name":      account.Name,
		"email":     account.Email,
		"username":  user.Username,
		"imageUrl":  r.Avatars.InitialsURL(account.Name),
	})
	if err != nil {
		return nil, err
	}

	created := core.UserFromDocument(*doc)
	return &created, nil
}

// SignIn opens an email session. The verification email is best-effort:
// its failure is logged and does not fail the sign-in.
func (r *Resolver) SignIn(ctx context.Context, email, password string) (*core.AccountSession, error) {
	session, err := r.Accounts.CreateEmailSession(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := r.Accounts.CreateVerification(ctx, r.Config.PublicBaseURL+"/verify"); err != nil {
		r.Logger.Warn("sending verification email", "error", err)
	}

	return session, nil
}

// SignOut deletes the current session and clears the cache.
func (r *Resolver) SignOut(ctx context.Context) error {
	err := r.Accounts.DeleteSession(ctx, "current")
	r.reset()
	return err
}

// ConfirmVerification completes email verification. Errors propagate.
func (r *Resolver) ConfirmVerification(ctx context.Context, userID, secret string) error {
	err := r.Accounts.ConfirmVerification(ctx, userID, secret)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.emailVerified = true
	r.mu.Unlock()
	return nil
}

// CreatePasswordRecovery sends the recovery email. Errors propagate.
func (r *Resolver) CreatePasswordRecovery(ctx context.Context, email string) error {
	return r.Accounts.CreateRecovery(ctx, email, r.Config.PublicBaseURL+"/reset-password")
}

// ConfirmPasswordRecovery consumes the recovery token. Errors propagate.
func (r *Resolver) ConfirmPasswordRecovery(ctx context.Context, userID, secret, password string) error {
	return r.Accounts.ConfirmRecovery(ctx, userID, secret, password)
}

func (r *Resolver) reset() {
	r.mu.Lock()
	r.user = core.User{}
	r.authenticated = false
	r.emailVerified = false
	r.mu.Unlock()
}

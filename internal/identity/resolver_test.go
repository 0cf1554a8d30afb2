package identity_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"snapgram/internal/core"
	"snapgram/internal/docstore/memory"
	"snapgram/internal/identity"
)

var errProvider = errors.New("provider is down")

type fakeAccounts struct {
	account    *core.Account
	accountErr error
	sessionErr error
	confirmErr error

	verifications   []string
	recoveries      []string
	deletedSessions []string
}

func (f *fakeAccounts) CreateAccount(_ context.Context, email, _, name string) (*core.Account, error) {
	if f.accountErr != nil {
		return nil, f.accountErr
	}
	return &core.Account{ID: "acc-1", Name: name, Email: email}, nil
}

func (f *fakeAccounts) CreateEmailSession(context.Context, string, string) (*core.AccountSession, error) {
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	return &core.AccountSession{ID: "sess-1", UserID: "acc-1"}, nil
}

func (f *fakeAccounts) DeleteSession(_ context.Context, sessionID string) error {
	f.deletedSessions = append(f.deletedSessions, sessionID)
	return nil
}

func (f *fakeAccounts) GetAccount(context.Context) (*core.Account, error) {
	if f.accountErr != nil {
		return nil, f.accountErr
	}
	return f.account, nil
}

func (f *fakeAccounts) CreateVerification(_ context.Context, redirectURL string) error {
	if f.confirmErr != nil {
		return f.confirmErr
	}
	f.verifications = append(f.verifications, redirectURL)
	return nil
}

func (f *fakeAccounts) ConfirmVerification(context.Context, string, string) error {
	return f.confirmErr
}

func (f *fakeAccounts) CreateRecovery(_ context.Context, _, redirectURL string) error {
	f.recoveries = append(f.recoveries, redirectURL)
	return nil
}

func (f *fakeAccounts) ConfirmRecovery(context.Context, string, string, string) error {
	return f.confirmErr
}

type fakeAvatars struct{}

func (fakeAvatars) InitialsURL(name string) string {
	return "https://avatars.example.com/?name=" + name
}

func newResolver(t *testing.T, accounts *fakeAccounts) (*identity.Resolver, *memory.Store) {
	t.Helper()

	docs := memory.New()
	resolver := &identity.Resolver{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config:   &core.Config{PublicBaseURL: "https://app.example.com"},
		Accounts: accounts,
		Docs:     docs,
		Avatars:  fakeAvatars{},
	}
	require.NoError(t, resolver.Init(context.Background()))

	return resolver, docs
}

func seedProfile(t *testing.T, docs *memory.Store, accountID, name string) {
	t.Helper()

	_, err := docs.CreateDocument(context.Background(), core.CollectionUsers, core.NewID(), map[string]any{
		"accountId": accountID,
		"name":      name,
	})
	require.NoError(t, err)
}

func TestResolver_CheckAuthUser(t *testing.T) {
	t.Parallel()

	t.Run("caches the resolved user", func(t *testing.T) {
		t.Parallel()

		accounts := &fakeAccounts{account: &core.Account{ID: "acc-1", Name: "Alice", EmailVerified: true}}
		resolver, docs := newResolver(t, accounts)
		seedProfile(t, docs, "acc-1", "Alice")

		require.True(t, resolver.CheckAuthUser(context.Background()))

		user, ok := resolver.CurrentUser()
		require.True(t, ok)
		require.Equal(t, "Alice", user.Name)
		require.True(t, resolver.EmailVerified())
	})

	t.Run("false when the session is invalid", func(t *testing.T) {
		t.Parallel()

		accounts := &fakeAccounts{accountErr: errProvider}
		resolver, _ := newResolver(t, accounts)

		require.False(t, resolver.CheckAuthUser(context.Background()))

		_, ok := resolver.CurrentUser()
		require.False(t, ok)
	})

	t.Run("false when the profile is missing", func(t *testing.T) {
		t.Parallel()

		accounts := &fakeAccounts{account: &core.Account{ID: "acc-1"}}
		resolver, _ := newResolver(t, accounts)

		require.False(t, resolver.CheckAuthUser(context.Background()))
	})

	t.Run("a failure clears a previously cached user", func(t *testing.T) {
		t.Parallel()

		accounts := &fakeAccounts{account: &core.Account{ID: "acc-1", EmailVerified: true}}
		resolver, docs := newResolver(t, accounts)
		seedProfile(t, docs, "acc-1", "Alice")

		require.True(t, resolver.CheckAuthUser(context.Background()))

		accounts.accountErr = errProvider
		require.False(t, resolver.CheckAuthUser(context.Background()))

		_, ok := resolver.CurrentUser()
		require.False(t, ok)
		require.False(t, resolver.EmailVerified())
	})
}

func TestResolver_SignUp(t *testing.T) {
	t.Parallel()

	t.Run("creates the profile with an initials avatar", func(t *testing.T) {
		t.Parallel()

		resolver, _ := newResolver(t, &fakeAccounts{})

		user, err := resolver.SignUp(context.Background(), identity.NewUser{
			Name:     "Alice",
			Username: "alice",
			Email:    "alice@example.com",
			Password: "secret",
		})
		require.NoError(t, err)
		require.Equal(t, "acc-1", user.AccountID)
		require.Equal(t, "alice", user.Username)
		require.Equal(t, "https://avatars.example.com/?name=Alice", user.ImageURL)
	})

	t.Run("propagates account creation failure", func(t *testing.T) {
		t.Parallel()

		resolver, docs := newResolver(t, &fakeAccounts{accountErr: errProvider})

		_, err := resolver.SignUp(context.Background(), identity.NewUser{Email: "a@example.com"})
		require.ErrorIs(t, err, errProvider)

		list, err := docs.ListDocuments(context.Background(), core.CollectionUsers)
		require.NoError(t, err)
		require.EqualValues(t, 0, list.Total)
	})
}

func TestResolver_SignIn(t *testing.T) {
	t.Parallel()

	t.Run("opens a session and sends the verification email", func(t *testing.T) {
		t.Parallel()

		accounts := &fakeAccounts{}
		resolver, _ := newResolver(t, accounts)

		session, err := resolver.SignIn(context.Background(), "alice@example.com", "secret")
		require.NoError(t, err)
		require.Equal(t, "sess-1", session.ID)
		require.Equal(t, []string{"https://app.example.com/verify"}, accounts.verifications)
	})

	t.Run("verification failure does not fail the sign-in", func(t *testing.T) {
		t.Parallel()

		accounts := &fakeAccounts{confirmErr: errProvider}
		resolver, _ := newResolver(t, accounts)

		session, err := resolver.SignIn(context.Background(), "alice@example.com", "secret")
		require.NoError(t, err)
		require.NotNil(t, session)
	})

	t.Run("propagates bad credentials", func(t *testing.T) {
		t.Parallel()

		resolver, _ := newResolver(t, &fakeAccounts{sessionErr: errProvider})

		_, err := resolver.SignIn(context.Background(), "alice@example.com", "wrong")
		require.ErrorIs(t, err, errProvider)
	})
}

func TestResolver_SignOut(t *testing.T) {
	t.Parallel()

	accounts := &fakeAccounts{account: &core.Account{ID: "acc-1"}}
	resolver, docs := newResolver(t, accounts)
	seedProfile(t, docs, "acc-1", "Alice")

	require.True(t, resolver.CheckAuthUser(context.Background()))
	require.NoError(t, resolver.SignOut(context.Background()))

	require.Equal(t, []string{"current"}, accounts.deletedSessions)

	_, ok := resolver.CurrentUser()
	require.False(t, ok)
}

func TestResolver_Verification(t *testing.T) {
	t.Parallel()

	t.Run("confirm sets the cached flag", func(t *testing.T) {
		t.Parallel()

		resolver, _ := newResolver(t, &fakeAccounts{})

		require.False(t, resolver.EmailVerified())
		require.NoError(t, resolver.ConfirmVerification(context.Background(), "acc-1", "token"))
		require.True(t, resolver.EmailVerified())
	})

	t.Run("confirm failure leaves the flag unset", func(t *testing.T) {
		t.Parallel()

		resolver, _ := newResolver(t, &fakeAccounts{confirmErr: errProvider})

		err := resolver.ConfirmVerification(context.Background(), "acc-1", "token")
		require.ErrorIs(t, err, errProvider)
		require.False(t, resolver.EmailVerified())
	})
}

func TestResolver_Recovery(t *testing.T) {
	t.Parallel()

	accounts := &fakeAccounts{}
	resolver, _ := newResolver(t, accounts)

	require.NoError(t, resolver.CreatePasswordRecovery(context.Background(), "alice@example.com"))
	require.Equal(t, []string{"https://app.example.com/reset-password"}, accounts.recoveries)

	require.NoError(t, resolver.ConfirmPasswordRecovery(context.Background(), "acc-1", "token", "newpass"))
}

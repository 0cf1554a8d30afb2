package appwrite

import (
	"context"

	"snapgram/internal/core"
	"snapgram/pkg/appwrite"
)

// Accounts implements core.AccountProvider.
type Accounts struct {
	Client *Client
}

func (a *Accounts) CreateAccount(ctx context.Context, email, password, name string) (*core.Account, error) {
	acc, err := a.Client.api.CreateAccount(ctx, core.NewID(), email, password, name)
	if err != nil {
		return nil, err
	}
	return coreAccount(acc), nil
}

func (a *Accounts) CreateEmailSession(ctx context.Context, email, password string) (*core.AccountSession, error) {
	session, err := a.Client.api.CreateEmailSession(ctx, email, password)
	if err != nil {
		return nil, err
	}
	a.Client.api.SetSession(session.Secret)
	return &core.AccountSession{ID: session.ID, UserID: session.UserID}, nil
}

func (a *Accounts) DeleteSession(ctx context.Context, sessionID string) error {
	return a.Client.api.DeleteSession(ctx, sessionID)
}

func (a *Accounts) GetAccount(ctx context.Context) (*core.Account, error) {
	acc, err := a.Client.api.GetAccount(ctx)
	if err != nil {
		return nil, err
	}
	return coreAccount(acc), nil
}

func (a *Accounts) CreateVerification(ctx context.Context, redirectURL string) error {
	return a.Client.api.CreateVerification(ctx, redirectURL)
}

func (a *Accounts) ConfirmVerification(ctx context.Context, userID, secret string) error {
	return a.Client.api.ConfirmVerification(ctx, userID, secret)
}

func (a *Accounts) CreateRecovery(ctx context.Context, email, redirectURL string) error {
	return a.Client.api.CreateRecovery(ctx, email, redirectURL)
}

func (a *Accounts) ConfirmRecovery(ctx context.Context, userID, secret, password string) error {
	return a.Client.api.ConfirmRecovery(ctx, userID, secret, password)
}

func coreAccount(acc *appwrite.Account) *core.Account {
	return &core.Account{
		ID:            acc.ID,
		Name:          acc.Name,
		Email:         acc.Email,
		EmailVerified: acc.EmailVerification,
	}
}

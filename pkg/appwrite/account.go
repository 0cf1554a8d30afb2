package appwrite

import (
	"context"
)

// https://appwrite.io/docs/references/cloud/client-rest/account
type Account struct {
	ID                string `json:"$id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	EmailVerification bool   `json:"emailVerification"`
}

type Session struct {
	ID     string `json:"$id"`
	UserID string `json:"userId"`
	Secret string `json:"secret"`
}

func (c *Client) CreateAccount(ctx context.Context, userID, email, password, name string) (*Account, error) {
	return unwrap[Account](c.r(ctx).
		SetBody(map[string]string{
			"userId":   userID,
			"email":    email,
			"password": password,
			"name":     name,
		}).
		SetResult(&Account{}).
		Post(c.endpoint + "/account"))
}

func (c *Client) CreateEmailSession(ctx context.Context, email, password string) (*Session, error) {
	return unwrap[Session](c.r(ctx).
		SetBody(map[string]string{
			"email":    email,
			"password": password,
		}).
		SetResult(&Session{}).
		Post(c.endpoint + "/account/sessions/email"))
}

func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	res, err := c.r(ctx).Delete(c.endpoint + "/account/sessions/" + sessionID)
	_, err = unwrap[any](res, err)
	return err
}

func (c *Client) GetAccount(ctx context.Context) (*Account, error) {
	return unwrap[Account](c.r(ctx).
		SetResult(&Account{}).
		Get(c.endpoint + "/account"))
}

func (c *Client) CreateVerification(ctx context.Context, redirectURL string) error {
	res, err := c.r(ctx).
		SetBody(map[string]string{"url": redirectURL}).
		Post(c.endpoint + "/account/verification")
	_, err = unwrap[any](res, err)
	return err
}

func (c *Client) ConfirmVerification(ctx context.Context, userID, secret string) error {
	res, err := c.r(ctx).
		SetBody(map[string]string{
			"userId": userID,
			"secret": secret,
		}).
		Put(c.endpoint + "/account/verification")
	_, err = unwrap[any](res, err)
	return err
}

func (c *Client) CreateRecovery(ctx context.Context, email, redirectURL string) error {
	res, err := c.r(ctx).
		SetBody(map[string]string{
			"email": email,
			"url":   redirectURL,
		}).
		Post(c.endpoint + "/account/recovery")
	_, err = unwrap[any](res, err)
	return err
}

func (c *Client) ConfirmRecovery(ctx context.Context, userID, secret, password string) error {
	res, err := c.r(ctx).
		SetBody(map[string]string{
			"userId":   userID,
			"secret":   secret,
			"password": password,
		}).
		Put(c.endpoint + "/account/recovery")
	_, err = unwrap[any](res, err)
	return err
}

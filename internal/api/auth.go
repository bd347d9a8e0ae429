package api

import "context"

// Credentials is the body for the two unauthenticated auth endpoints.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the access token issued on successful sign-in.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// AccountInfo is the signed-in user's profile data.
type AccountInfo struct {
	Email string `json:"email"`
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.post(ctx, "/auth/login", Credentials{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a new account. The token is unaffected; the caller signs
// in afterwards.
func (c *Client) Register(ctx context.Context, email, password string) error {
	return c.post(ctx, "/auth/register", Credentials{Email: email, Password: password}, nil)
}

// MyInfo fetches the signed-in user's account details.
func (c *Client) MyInfo(ctx context.Context) (*AccountInfo, error) {
	var out AccountInfo
	if err := c.get(ctx, "/auth/myInfo", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangePassword sets a new password for the signed-in user.
func (c *Client) ChangePassword(ctx context.Context, password string) error {
	body := struct {
		Password string `json:"password"`
	}{Password: password}
	return c.post(ctx, "/auth/change_password", body, nil)
}

package api

import (
	"context"
	"net/http"

	"taskdeck/internal/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User models.User `json:"user"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token and user-details blob. The
// caller is responsible for persisting them.
func (c *Client) Login(ctx context.Context, email, password string) (models.User, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return models.User{}, err
	}
	return resp.User, nil
}

// Register creates a new account. It does not log the user in.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	return c.do(ctx, http.MethodPost, "/auth/register", registerRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, nil)
}

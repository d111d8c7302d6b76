package backend

import (
	"context"
	"net/http"
)

func (c *Client) Login(ctx context.Context, cred Credentials) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.send(ctx, http.MethodPost, "", "/auth/login", cred, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(ctx context.Context, cred Credentials) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.send(ctx, http.MethodPost, "", "/auth/register", cred, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Profile(ctx context.Context, token string) (*Profile, error) {
	var p Profile
	if err := c.get(ctx, token, "/user/profile", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProfile(ctx context.Context, token string, in ProfileUpdate) (*Profile, error) {
	var p Profile
	if err := c.send(ctx, http.MethodPut, token, "/user/profile", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

package api

import (
	"context"
	"strconv"

	"github.com/idilsaglam/cusrr/internal/model"
)

const usersPath = "/api/v1/users"

func userPath(id int) string { return usersPath + "/" + strconv.Itoa(id) }

// Me probes the current session. An anonymous session is not an error;
// it returns Authenticated=false.
func (c *Client) Me(ctx context.Context) (model.Me, error) {
	var out model.Me
	err := c.GetJSON(ctx, "/me", nil, &out)
	return out, err
}

func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var out []model.User
	if err := c.GetJSON(ctx, usersPath+"/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetUser(ctx context.Context, id int) (model.User, error) {
	var out model.User
	err := c.GetJSON(ctx, userPath(id), nil, &out)
	return out, err
}

func (c *Client) UpdateUser(ctx context.Context, id int, fields map[string]any) (model.User, error) {
	var out model.User
	err := c.PutJSON(ctx, userPath(id), fields, &out)
	return out, err
}

func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.delete(ctx, userPath(id))
}

package zipline

import (
	"context"
	"fmt"
	"net/url"
)

// QuotaEdit sets a user's quota. Value is bytes for QuotaByBytes and a file
// count for QuotaByFiles; it is ignored for QuotaNone.
type QuotaEdit struct {
	Type    QuotaType
	Value   int64
	MaxURLs Optional[int]
}

// UserEdit lists the fields of a user to change. Unset fields are not sent.
type UserEdit struct {
	Username Optional[string]
	Password Optional[string]
	// Avatar is a data URI, see EncodeAvatar.
	Avatar Optional[string]
	Role   Optional[UserRole]
	Quota  *QuotaEdit
}

func (e UserEdit) payload() map[string]any {
	p := map[string]any{}
	e.Username.setIn(p, "username")
	e.Password.setIn(p, "password")
	e.Avatar.setIn(p, "avatar")
	e.Role.setIn(p, "role")
	if e.Quota != nil {
		p["quota"] = QuotaPayload(e.Quota.Type, e.Quota.Value, e.Quota.MaxURLs)
	}
	return p
}

// CreateUserOptions describes a new user.
type CreateUserOptions struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
	Role     UserRole
	Avatar   string
}

// GetSelf returns the user the token belongs to
func (c *Client) GetSelf(ctx context.Context) (*User, error) {
	resp, err := call[selfResponse](ctx, c, route(MethodGet, "/api/user"), nil)
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// EditSelf updates the current user
func (c *Client) EditSelf(ctx context.Context, edit UserEdit) (*User, error) {
	resp, err := call[selfResponse](ctx, c, route(MethodPatch, "/api/user"), jsonOpts(edit.payload()))
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// GetToken returns the current user's API token
func (c *Client) GetToken(ctx context.Context) (string, error) {
	resp, err := call[tokenResponse](ctx, c, route(MethodGet, "/api/user/token"), nil)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// ResetToken invalidates the current token and returns a new one. The client
// keeps using the old token, so callers must build a new Client afterwards.
func (c *Client) ResetToken(ctx context.Context) (string, error) {
	resp, err := call[tokenResponse](ctx, c, route(MethodPatch, "/api/user/token"), nil)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// ListUsers returns every user. Requires an administrator token.
func (c *Client) ListUsers(ctx context.Context) ([]*User, error) {
	return callList[User](ctx, c, route(MethodGet, "/api/users"), nil)
}

// CreateUser creates a user. Requires an administrator token.
func (c *Client) CreateUser(ctx context.Context, opts CreateUserOptions) (*User, error) {
	if err := checkInput(opts); err != nil {
		return nil, err
	}
	payload := map[string]any{
		"username": opts.Username,
		"password": opts.Password,
	}
	if opts.Role != "" {
		payload["role"] = opts.Role
	}
	if opts.Avatar != "" {
		payload["avatar"] = opts.Avatar
	}
	return call[User](ctx, c, route(MethodPost, "/api/users"), jsonOpts(payload))
}

// GetUser returns a user by ID
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	return call[User](ctx, c, route(MethodGet, "/api/users/%s", url.PathEscape(id)), nil)
}

// EditUser updates a user by ID
func (c *Client) EditUser(ctx context.Context, id string, edit UserEdit) (*User, error) {
	return call[User](ctx, c, route(MethodPatch, "/api/users/%s", url.PathEscape(id)), jsonOpts(edit.payload()))
}

// DeleteUser deletes a user. With deleteData the user's files and urls go too.
func (c *Client) DeleteUser(ctx context.Context, id string, deleteData bool) (*User, error) {
	return call[User](ctx, c, route(MethodDelete, "/api/users/%s", url.PathEscape(id)),
		jsonOpts(map[string]any{"delete": deleteData}))
}

// Refresh reloads the user from the server.
func (u *User) Refresh(ctx context.Context) error {
	if u.client == nil {
		return errUnbound
	}
	fresh, err := u.client.GetUser(ctx, u.ID)
	if err != nil {
		return err
	}
	*u = *fresh
	return nil
}

// Edit applies edit and updates u in place.
func (u *User) Edit(ctx context.Context, edit UserEdit) error {
	if u.client == nil {
		return errUnbound
	}
	updated, err := u.client.EditUser(ctx, u.ID, edit)
	if err != nil {
		return err
	}
	*u = *updated
	return nil
}

// Delete removes the user from the server.
func (u *User) Delete(ctx context.Context, deleteData bool) error {
	if u.client == nil {
		return errUnbound
	}
	_, err := u.client.DeleteUser(ctx, u.ID, deleteData)
	return err
}

// AvatarData decodes the user's avatar.
func (u *User) AvatarData() (mimeType string, data []byte, err error) {
	if u.Avatar == nil || *u.Avatar == "" {
		return "", nil, fmt.Errorf("user %s has no avatar", u.Username)
	}
	return DecodeAvatar(*u.Avatar)
}

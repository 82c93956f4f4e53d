package zipline

import (
	"context"
	"net/url"
)

// CreateInviteOptions describes a new invite. A zero Expiry never expires.
type CreateInviteOptions struct {
	Expiry  Expiry
	MaxUses Optional[int]
}

// ListInvites returns every invite. Requires an administrator token.
func (c *Client) ListInvites(ctx context.Context) ([]*Invite, error) {
	return callList[Invite](ctx, c, route(MethodGet, "/api/auth/invites"), nil)
}

// CreateInvite creates an invite code
func (c *Client) CreateInvite(ctx context.Context, opts CreateInviteOptions) (*Invite, error) {
	payload := map[string]any{"expiresAt": "never"}
	if !opts.Expiry.IsZero() {
		payload["expiresAt"] = expiryValue(opts.Expiry, c.now())
	}
	opts.MaxUses.setIn(payload, "maxUses")
	return call[Invite](ctx, c, route(MethodPost, "/api/auth/invites"), jsonOpts(payload))
}

// GetInvite returns an invite by ID
func (c *Client) GetInvite(ctx context.Context, id string) (*Invite, error) {
	return call[Invite](ctx, c, route(MethodGet, "/api/auth/invites/%s", url.PathEscape(id)), nil)
}

// DeleteInvite deletes an invite by ID
func (c *Client) DeleteInvite(ctx context.Context, id string) (*Invite, error) {
	return call[Invite](ctx, c, route(MethodDelete, "/api/auth/invites/%s", url.PathEscape(id)), nil)
}

// URL returns the registration link for the invite.
func (i *Invite) URL() string {
	path := "/auth/register?code=" + url.QueryEscape(i.Code)
	if i.client == nil {
		return path
	}
	return i.client.fullURL(path)
}

func (i *Invite) Delete(ctx context.Context) error {
	if i.client == nil {
		return errUnbound
	}
	_, err := i.client.DeleteInvite(ctx, i.ID)
	return err
}

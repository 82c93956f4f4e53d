package zipline

import (
	"context"
	"net/url"
)

// TagEdit lists the fields of a tag to change. Unset fields are not sent.
type TagEdit struct {
	Name  Optional[string]
	Color Optional[Color]
}

// ListTags returns the current user's tags
func (c *Client) ListTags(ctx context.Context) ([]*Tag, error) {
	return callList[Tag](ctx, c, route(MethodGet, "/api/user/tags"), nil)
}

// CreateTag creates a tag
func (c *Client) CreateTag(ctx context.Context, name string, color Color) (*Tag, error) {
	payload := map[string]any{"name": name, "color": color.Hex()}
	return call[Tag](ctx, c, route(MethodPost, "/api/user/tags"), jsonOpts(payload))
}

// EditTag updates a tag
func (c *Client) EditTag(ctx context.Context, id string, edit TagEdit) (*Tag, error) {
	p := map[string]any{}
	edit.Name.setIn(p, "name")
	edit.Color.setIn(p, "color")
	return call[Tag](ctx, c, route(MethodPatch, "/api/user/tags/%s", url.PathEscape(id)), jsonOpts(p))
}

// DeleteTag deletes a tag
func (c *Client) DeleteTag(ctx context.Context, id string) (*Tag, error) {
	return call[Tag](ctx, c, route(MethodDelete, "/api/user/tags/%s", url.PathEscape(id)), nil)
}

func (t *Tag) Edit(ctx context.Context, edit TagEdit) error {
	if t.client == nil {
		return errUnbound
	}
	updated, err := t.client.EditTag(ctx, t.ID, edit)
	if err != nil {
		return err
	}
	*t = *updated
	return nil
}

func (t *Tag) Delete(ctx context.Context) error {
	if t.client == nil {
		return errUnbound
	}
	_, err := t.client.DeleteTag(ctx, t.ID)
	return err
}

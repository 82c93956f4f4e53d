package zipline

import (
	"context"
	"net/url"
	"strconv"
)

// ShortenOptions are the optional settings of a shortened URL. Empty fields
// are not sent.
type ShortenOptions struct {
	Vanity   string
	MaxViews *int `validate:"omitnil,gte=0"`
	Password string
	Domain   string
	Disabled bool
	// NoJSON asks the server to answer with the bare link as text.
	NoJSON bool
}

func (o ShortenOptions) headers() map[string]string {
	h := map[string]string{}
	if o.MaxViews != nil {
		h[HeaderMaxViews] = strconv.Itoa(*o.MaxViews)
	}
	if o.Password != "" {
		h[HeaderPassword] = o.Password
	}
	if o.Domain != "" {
		h[HeaderDomain] = o.Domain
	}
	if o.NoJSON {
		h[HeaderNoJSON] = "true"
	}
	return h
}

// ShortenURL creates a short link to destination
func (c *Client) ShortenURL(ctx context.Context, destination string, opts ShortenOptions) (*ShortenResult, error) {
	if err := checkInput(opts); err != nil {
		return nil, err
	}
	payload := map[string]any{
		"destination": destination,
		"enabled":     !opts.Disabled,
	}
	if opts.Vanity != "" {
		payload["vanity"] = opts.Vanity
	}

	body, err := c.http.Request(ctx, route(MethodPost, "/api/user/urls"), &RequestOptions{
		Headers: opts.headers(),
		JSON:    payload,
	})
	if err != nil {
		return nil, err
	}
	if body.Kind != BodyJSON {
		return &ShortenResult{Kind: ResultText, Text: body.String()}, nil
	}

	var short ShortURL
	if err := decodeInto(c, body, &short); err != nil {
		return nil, err
	}
	return &ShortenResult{Kind: ResultJSON, URL: &short}, nil
}

// ListURLs returns the current user's short links
func (c *Client) ListURLs(ctx context.Context) ([]*ShortURL, error) {
	return callList[ShortURL](ctx, c, route(MethodGet, "/api/user/urls"), nil)
}

// GetURL returns a short link by ID
func (c *Client) GetURL(ctx context.Context, id string) (*ShortURL, error) {
	return call[ShortURL](ctx, c, route(MethodGet, "/api/user/urls/%s", url.PathEscape(id)), nil)
}

// URLEdit lists the fields of a short link to change. Unset fields are not sent.
type URLEdit struct {
	Vanity      Optional[string]
	Destination Optional[string]
	MaxViews    Optional[int]
	Password    Optional[string]
	Enabled     Optional[bool]
}

// EditURL updates a short link
func (c *Client) EditURL(ctx context.Context, id string, edit URLEdit) (*ShortURL, error) {
	p := map[string]any{}
	edit.Vanity.setIn(p, "vanity")
	edit.Destination.setIn(p, "destination")
	edit.MaxViews.setIn(p, "maxViews")
	edit.Password.setIn(p, "password")
	edit.Enabled.setIn(p, "enabled")
	return call[ShortURL](ctx, c, route(MethodPatch, "/api/user/urls/%s", url.PathEscape(id)), jsonOpts(p))
}

// DeleteURL deletes a short link
func (c *Client) DeleteURL(ctx context.Context, id string) (*ShortURL, error) {
	return call[ShortURL](ctx, c, route(MethodDelete, "/api/user/urls/%s", url.PathEscape(id)), nil)
}

// FullURL returns the absolute short link.
func (u *ShortURL) FullURL() string {
	link := u.URL
	if link == "" {
		link = "/go/" + u.Code
		if u.Vanity != nil && *u.Vanity != "" {
			link = "/go/" + *u.Vanity
		}
	}
	if u.client == nil {
		return link
	}
	return u.client.fullURL(link)
}

func (u *ShortURL) Refresh(ctx context.Context) error {
	if u.client == nil {
		return errUnbound
	}
	fresh, err := u.client.GetURL(ctx, u.ID)
	if err != nil {
		return err
	}
	*u = *fresh
	return nil
}

func (u *ShortURL) Edit(ctx context.Context, edit URLEdit) error {
	if u.client == nil {
		return errUnbound
	}
	updated, err := u.client.EditURL(ctx, u.ID, edit)
	if err != nil {
		return err
	}
	*u = *updated
	return nil
}

func (u *ShortURL) Delete(ctx context.Context) error {
	if u.client == nil {
		return errUnbound
	}
	_, err := u.client.DeleteURL(ctx, u.ID)
	return err
}

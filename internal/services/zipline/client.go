package zipline

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// errUnbound is returned by model actions on values that did not come from a Client.
var errUnbound = fmt.Errorf("%w: model is not bound to a client", ErrZipline)

// Client is a typed Zipline API client built on HTTPClient.
type Client struct {
	http *HTTPClient
	now  func() time.Time
}

var _ ClientAPI = (*Client)(nil)

// NewClient creates a client for the server at serverURL authenticating with token.
func NewClient(serverURL, token string, opts ...HTTPOption) (*Client, error) {
	httpClient, err := NewHTTPClient(serverURL, token, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{http: httpClient, now: time.Now}, nil
}

// BaseURL returns the normalized server URL.
func (c *Client) BaseURL() string {
	return c.http.BaseURL()
}

// HTTP exposes the underlying dispatcher for endpoints this client does not wrap.
func (c *Client) HTTP() *HTTPClient {
	return c.http
}

// Close releases the underlying transport.
func (c *Client) Close() {
	c.http.Close()
}

func (c *Client) fullURL(path string) string {
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}
	return c.BaseURL() + path
}

// binder is implemented by models that call back into the client.
type binder interface {
	bind(c *Client)
}

// decodeInto decodes body into out, checks required fields and binds the client.
func decodeInto[T any](c *Client, body Body, out *T) error {
	if err := body.Decode(out); err != nil {
		return err
	}
	if err := validateModel(out); err != nil {
		return err
	}
	if b, ok := any(out).(binder); ok {
		b.bind(c)
	}
	return nil
}

// decodeList decodes a JSON array of models.
func decodeList[T any, PT interface {
	*T
	binder
}](c *Client, body Body) ([]*T, error) {
	var items []T
	if err := body.Decode(&items); err != nil {
		return nil, err
	}
	out := make([]*T, len(items))
	for i := range items {
		if err := validateModel(&items[i]); err != nil {
			return nil, err
		}
		PT(&items[i]).bind(c)
		out[i] = &items[i]
	}
	return out, nil
}

func validateModel(v any) error {
	if err := validate.Struct(v); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return nil
		}
		return &DecodeError{Type: fmt.Sprintf("%T", v), Err: err}
	}
	return nil
}

// checkInput validates caller-supplied option structs before any I/O.
func checkInput(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("invalid %T: %w", v, err)
	}
	return nil
}

// call performs a request and decodes a single model.
func call[T any](ctx context.Context, c *Client, r Route, opts *RequestOptions) (*T, error) {
	body, err := c.http.Request(ctx, r, opts)
	if err != nil {
		return nil, err
	}
	var out T
	if err := decodeInto(c, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// callList performs a request and decodes a list of models.
func callList[T any, PT interface {
	*T
	binder
}](ctx context.Context, c *Client, r Route, opts *RequestOptions) ([]*T, error) {
	body, err := c.http.Request(ctx, r, opts)
	if err != nil {
		return nil, err
	}
	return decodeList[T, PT](c, body)
}

// countResponse is returned by bulk operations.
type countResponse struct {
	Count int `json:"count"`
}

func (countResponse) bind(*Client) {}

func jsonOpts(payload any) *RequestOptions {
	return &RequestOptions{JSON: payload}
}

package zipline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultTimeout = 60 * time.Second

	contentTypeJSON        = "application/json"
	contentTypeOctetStream = "application/octet-stream"
)

// BodyKind discriminates the decoded response body.
type BodyKind int

const (
	BodyText BodyKind = iota
	BodyJSON
	BodyBytes
)

func (k BodyKind) String() string {
	switch k {
	case BodyJSON:
		return "json"
	case BodyBytes:
		return "bytes"
	default:
		return "text"
	}
}

// Body is a decoded response body. Only the field matching Kind is set.
type Body struct {
	Kind  BodyKind
	JSON  json.RawMessage
	Bytes []byte
	Text  string
}

// Decode unmarshals a JSON body into v.
func (b Body) Decode(v any) error {
	if b.Kind != BodyJSON {
		return &DecodeError{Type: fmt.Sprintf("%T", v), Err: fmt.Errorf("expected json body, got %s", b.Kind)}
	}
	if err := json.Unmarshal(b.JSON, v); err != nil {
		return &DecodeError{Type: fmt.Sprintf("%T", v), Err: err}
	}
	return nil
}

// String returns the body as text regardless of kind.
func (b Body) String() string {
	switch b.Kind {
	case BodyJSON:
		return string(b.JSON)
	case BodyBytes:
		return string(b.Bytes)
	default:
		return b.Text
	}
}

// errorMessage extracts the "error" field of a JSON object, or the raw body.
func (b Body) errorMessage() string {
	if b.Kind == BodyJSON {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(b.JSON, &obj); err == nil {
			if raw, ok := obj["error"]; ok {
				var s string
				if err := json.Unmarshal(raw, &s); err == nil {
					return s
				}
				return string(raw)
			}
		}
	}
	return b.String()
}

// FormFile is the multipart "file" field of an upload.
type FormFile struct {
	FieldName   string
	Filename    string
	ContentType string
	Data        []byte
}

// RequestOptions carries the optional parts of a request.
type RequestOptions struct {
	Headers map[string]string
	Params  url.Values
	JSON    any
	File    *FormFile
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeBody returns the request body and the content type it requires.
func (o *RequestOptions) encodeBody() (io.Reader, string, error) {
	switch {
	case o.JSON != nil && o.File != nil:
		return nil, "", fmt.Errorf("json and file payloads are mutually exclusive")

	case o.JSON != nil:
		data, err := json.Marshal(o.JSON)
		if err != nil {
			return nil, "", fmt.Errorf("encoding json payload: %w", err)
		}
		return bytes.NewReader(data), contentTypeJSON, nil

	case o.File != nil:
		field := o.File.FieldName
		if field == "" {
			field = "file"
		}
		contentType := o.File.ContentType
		if contentType == "" {
			contentType = contentTypeOctetStream
		}

		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(field), quoteEscaper.Replace(o.File.Filename)))
		h.Set("Content-Type", contentType)

		part, err := writer.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(o.File.Data); err != nil {
			return nil, "", err
		}
		if err := writer.Close(); err != nil {
			return nil, "", err
		}
		return &buf, writer.FormDataContentType(), nil
	}

	return nil, "", nil
}

// HTTPClient performs one round trip per call against a Zipline server and
// maps the outcome to a Body or a typed error. It is safe for concurrent use.
type HTTPClient struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
	logger     *logrus.Logger
	closed     atomic.Bool
}

// HTTPOption customizes an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithHTTPClient replaces the underlying transport session.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(c *HTTPClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default transport.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(c *HTTPClient) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger enables debug logging of every round trip.
func WithLogger(logger *logrus.Logger) HTTPOption {
	return func(c *HTTPClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewHTTPClient creates a dispatcher for serverURL. Only scheme and host of
// serverURL are kept.
func NewHTTPClient(serverURL, token string, opts ...HTTPOption) (*HTTPClient, error) {
	baseURL, err := normalizeBaseURL(serverURL)
	if err != nil {
		return nil, err
	}

	silent := logrus.New()
	silent.SetOutput(io.Discard)

	c := &HTTPClient{
		baseURL:   baseURL,
		token:     token,
		userAgent: UserAgent(),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: silent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func normalizeBaseURL(serverURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(serverURL))
	if err != nil {
		return "", fmt.Errorf("invalid server url %q: %w", serverURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid server url %q: scheme and host are required", serverURL)
	}
	return u.Scheme + "://" + u.Host, nil
}

// BaseURL returns the normalized scheme://host the client talks to.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Request sends one request for r and returns the decoded body of a 2xx
// response. Any other status yields an *APIError (or *UnhandledError).
func (c *HTTPClient) Request(ctx context.Context, r Route, opts *RequestOptions) (Body, error) {
	if c.closed.Load() {
		return Body{}, ErrClientClosed
	}
	if opts == nil {
		opts = &RequestOptions{}
	}

	target := c.baseURL + r.Path
	if len(opts.Params) > 0 {
		target += "?" + opts.Params.Encode()
	}

	payload, contentType, err := opts.encodeBody()
	if err != nil {
		return Body{}, err
	}

	req, err := http.NewRequestWithContext(ctx, string(r.Method), target, payload)
	if err != nil {
		return Body{}, err
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Authorization", c.token)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Body{}, err
	}
	defer resp.Body.Close()

	body, err := decodeBody(resp)
	if err != nil {
		return Body{}, fmt.Errorf("reading response of %s: %w", r, err)
	}

	c.logger.WithFields(logrus.Fields{
		"method":   r.Method,
		"path":     r.Path,
		"status":   resp.StatusCode,
		"duration": time.Since(start).Round(time.Millisecond),
	}).Debug("zipline request")

	if err := checkStatus(resp.StatusCode, resp.Header, body); err != nil {
		return Body{}, err
	}
	return body, nil
}

// Close releases the transport session. It is safe to call more than once.
func (c *HTTPClient) Close() {
	if c.closed.Swap(true) {
		return
	}
	c.httpClient.CloseIdleConnections()
}

// decodeBody buckets the response by media type: JSON, octet-stream or text.
func decodeBody(resp *http.Response) (Body, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Body{}, err
	}

	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		mediaType = ""
	}

	switch mediaType {
	case contentTypeOctetStream:
		return Body{Kind: BodyBytes, Bytes: data}, nil
	case contentTypeJSON:
		if json.Valid(data) {
			return Body{Kind: BodyJSON, JSON: json.RawMessage(data)}, nil
		}
	}
	return Body{Kind: BodyText, Text: string(data)}, nil
}

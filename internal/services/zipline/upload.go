package zipline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Option headers understood by the upload and shorten endpoints.
const (
	HeaderFormat             = "X-Zipline-Format"
	HeaderPassword           = "X-Zipline-Password"
	HeaderMaxViews           = "X-Zipline-Max-Views"
	HeaderFilename           = "X-Zipline-Filename"
	HeaderOriginalName       = "X-Zipline-Original-Name"
	HeaderFileExtension      = "X-Zipline-File-Extension"
	HeaderFolder             = "X-Zipline-Folder"
	HeaderDomain             = "X-Zipline-Domain"
	HeaderDeletesAt          = "X-Zipline-Deletes-At"
	HeaderCompressionPercent = "X-Zipline-Image-Compression-Percent"
	HeaderNoJSON             = "X-Zipline-No-Json"
)

// UploadPayload is a file ready to be uploaded.
type UploadPayload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NewUploadPayload wraps data, picking a content type with DetectContentType
// unless contentType is given.
func NewUploadPayload(filename string, data []byte, contentType string) *UploadPayload {
	return &UploadPayload{
		Filename:    filename,
		ContentType: DetectContentType(filename, data, contentType),
		Data:        data,
	}
}

// PayloadFromPath reads the file at path into an UploadPayload.
func PayloadFromPath(path, contentType string) (*UploadPayload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return NewUploadPayload(filepath.Base(path), data, contentType), nil
}

// UploadOptions are the optional settings of an upload. Zero fields are not
// sent, so the server's defaults apply.
type UploadOptions struct {
	Format             NameFormat
	CompressionPercent *int `validate:"omitnil,min=0,max=100"`
	Expiry             Expiry
	Password           string
	MaxViews           *int `validate:"omitnil,gte=0"`
	OverrideName       string
	OriginalName       string
	FileExtension      string
	Folder             string
	Domain             string
	// NoJSON asks the server to answer with the bare link as text.
	NoJSON bool
}

func (o UploadOptions) headers(now time.Time) map[string]string {
	h := map[string]string{}
	set := func(key, value string) {
		if value != "" {
			h[key] = value
		}
	}
	set(HeaderFormat, string(o.Format))
	if o.CompressionPercent != nil {
		h[HeaderCompressionPercent] = strconv.Itoa(*o.CompressionPercent)
	}
	if !o.Expiry.IsZero() {
		h[HeaderDeletesAt] = expiryValue(o.Expiry, now)
	}
	set(HeaderPassword, o.Password)
	if o.MaxViews != nil {
		h[HeaderMaxViews] = strconv.Itoa(*o.MaxViews)
	}
	set(HeaderFilename, o.OverrideName)
	set(HeaderOriginalName, o.OriginalName)
	set(HeaderFileExtension, o.FileExtension)
	set(HeaderFolder, o.Folder)
	set(HeaderDomain, o.Domain)
	if o.NoJSON {
		h[HeaderNoJSON] = "true"
	}
	return h
}

// Upload sends payload as a multipart upload
func (c *Client) Upload(ctx context.Context, payload *UploadPayload, opts UploadOptions) (*UploadResult, error) {
	if payload == nil {
		return nil, fmt.Errorf("upload payload is nil")
	}
	if err := checkInput(opts); err != nil {
		return nil, err
	}

	body, err := c.http.Request(ctx, route(MethodPost, "/api/upload"), &RequestOptions{
		Headers: opts.headers(c.now()),
		File: &FormFile{
			Filename:    payload.Filename,
			ContentType: payload.ContentType,
			Data:        payload.Data,
		},
	})
	if err != nil {
		return nil, err
	}
	if body.Kind != BodyJSON {
		return &UploadResult{Kind: ResultText, Text: body.String()}, nil
	}

	var resp UploadResponse
	if err := decodeInto(c, body, &resp); err != nil {
		return nil, err
	}
	return &UploadResult{Kind: ResultJSON, Response: &resp}, nil
}

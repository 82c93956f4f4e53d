package http

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/ochronus/gozipline/internal/app"
	"github.com/ochronus/gozipline/internal/config"
	"github.com/ochronus/gozipline/internal/services/zipline"
	"github.com/sirupsen/logrus"
)

// uploadField is the multipart field carrying the file.
const uploadField = "file"

// Handler contains the relay HTTP handlers.
type Handler struct {
	container *app.Container
	config    *config.Config
	client    zipline.ClientAPI
	logger    *logrus.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(container *app.Container) *Handler {
	return &Handler{
		container: container,
		config:    container.Config,
		client:    container.Client,
		logger:    container.Logger,
	}
}

// shortenRequest is the JSON body of POST /shorten.
type shortenRequest struct {
	URL      string `json:"url" binding:"required,url"`
	Vanity   string `json:"vanity"`
	MaxViews *int   `json:"max_views" binding:"omitnil,gte=0"`
	Password string `json:"password"`
	Domain   string `json:"domain"`
}

// Health reports that the relay is up. It needs no credentials.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"server":  h.client.BaseURL(),
		"version": zipline.Version,
	})
}

// Upload forwards a multipart file to Zipline using the configured upload defaults.
// Form fields format, expiry, password, max_views, folder and original_name override them.
func (h *Handler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.config.Relay.MaxUploadBytes)

	header, err := c.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "upload exceeds " + humanize.IBytes(uint64(h.config.Relay.MaxUploadBytes)),
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field \"file\" is required"})
		return
	}

	opts, err := h.uploadOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload := zipline.NewUploadPayload(header.Filename, data, header.Header.Get("Content-Type"))
	result, err := h.client.Upload(c.Request.Context(), payload, opts)
	if err != nil {
		h.logger.Errorf("[%s] %s: upload failed: %v", requestID(c), header.Filename, err)
		h.writeError(c, err)
		return
	}

	urls := result.URLs()
	h.logger.Infof("[%s] %s: uploaded (%s) to %s", requestID(c), header.Filename, humanize.Bytes(uint64(len(data))), strings.Join(urls, ", "))
	c.JSON(http.StatusOK, gin.H{"files": urls})
}

// Shorten forwards a URL to Zipline's shortener.
func (h *Handler) Shorten(c *gin.Context) {
	var req shortenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.client.ShortenURL(c.Request.Context(), req.URL, zipline.ShortenOptions{
		Vanity:   req.Vanity,
		MaxViews: req.MaxViews,
		Password: req.Password,
		Domain:   req.Domain,
	})
	if err != nil {
		h.logger.Errorf("[%s] shorten %s failed: %v", requestID(c), req.URL, err)
		h.writeError(c, err)
		return
	}

	link := result.Link()
	h.logger.Infof("[%s] shortened %s to %s", requestID(c), req.URL, link)
	c.JSON(http.StatusOK, gin.H{"url": link})
}

// uploadOptions applies the request's form overrides on top of the configured defaults
func (h *Handler) uploadOptions(c *gin.Context) (zipline.UploadOptions, error) {
	opts, err := h.config.UploadOptions()
	if err != nil {
		return opts, err
	}

	if v := c.PostForm("format"); v != "" {
		if opts.Format, err = zipline.ParseNameFormat(v); err != nil {
			return opts, err
		}
	}
	if v := c.PostForm("expiry"); v != "" {
		if opts.Expiry, err = zipline.ParseExpiry(v); err != nil {
			return opts, err
		}
	}
	if v := c.PostForm("max_views"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, errors.New("max_views must be a non-negative integer")
		}
		opts.MaxViews = &n
	}
	if v := c.PostForm("password"); v != "" {
		opts.Password = v
	}
	if v := c.PostForm("folder"); v != "" {
		opts.Folder = v
	}
	if v := c.PostForm("original_name"); v != "" {
		opts.OriginalName = v
	}
	return opts, nil
}

// writeError maps a Zipline error onto the relay response
func (h *Handler) writeError(c *gin.Context, err error) {
	// Zipline auth failures are the relay's problem, not the caller's.
	var apiErr *zipline.APIError
	if errors.As(err, &apiErr) && !zipline.IsAuthError(err) {
		c.JSON(apiErr.Code, gin.H{"error": apiErr.Error()})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}

// validateUser validates the Basic Auth credentials.
func (h *Handler) validateUser(c *gin.Context) bool {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return false
	}

	if !strings.HasPrefix(authHeader, "Basic ") {
		return false
	}

	encoded := strings.TrimPrefix(authHeader, "Basic ")
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return false
	}

	username, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return false
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.config.Relay.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(h.config.Relay.Password)) == 1
	return userOK && passOK
}

// RequireAuth rejects requests without valid relay credentials.
func (h *Handler) RequireAuth(c *gin.Context) {
	if !h.validateUser(c) {
		c.Header("WWW-Authenticate", `Basic realm="gozipline"`)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}

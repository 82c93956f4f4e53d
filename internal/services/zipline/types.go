package zipline

import (
	"time"
)

// Tag is a label that can be attached to files.
type Tag struct {
	ID        string    `json:"id" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Name      string    `json:"name" validate:"required"`
	Color     Color     `json:"color"`

	client *Client
}

func (t *Tag) bind(c *Client) { t.client = c }

// Thumbnail points at a generated preview of a video file.
type Thumbnail struct {
	Path string `json:"path"`
}

// File is a file stored on the server.
type File struct {
	ID           string     `json:"id" validate:"required"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	DeletesAt    *time.Time `json:"deletesAt"`
	Favorite     bool       `json:"favorite"`
	OriginalName *string    `json:"originalName"`
	Name         string     `json:"name" validate:"required"`
	Size         int64      `json:"size"`
	Type         string     `json:"type"`
	Views        int        `json:"views"`
	MaxViews     *int       `json:"maxViews"`
	FolderID     *string    `json:"folderId"`
	Thumbnail    *Thumbnail `json:"thumbnail"`
	Tags         []Tag      `json:"tags" validate:"dive"`
	URL          string     `json:"url"`

	client *Client
}

func (f *File) bind(c *Client) {
	f.client = c
	for i := range f.Tags {
		f.Tags[i].bind(c)
	}
}

// FilePage is one page of a file listing.
type FilePage struct {
	Page  []File `json:"page" validate:"dive"`
	Total int    `json:"total"`
	Pages int    `json:"pages"`
}

func (p *FilePage) bind(c *Client) {
	for i := range p.Page {
		p.Page[i].bind(c)
	}
}

// UserQuota is the limit applied to a user.
type UserQuota struct {
	FilesQuota QuotaType `json:"filesQuota"`
	MaxBytes   *string   `json:"maxBytes"`
	MaxFiles   *int      `json:"maxFiles"`
	MaxURLs    *int      `json:"maxUrls"`
}

// User is an account on the server.
type User struct {
	ID         string         `json:"id" validate:"required"`
	Username   string         `json:"username" validate:"required"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	Role       UserRole       `json:"role"`
	Avatar     *string        `json:"avatar"`
	TOTPSecret *string        `json:"totpSecret"`
	Quota      *UserQuota     `json:"quota"`
	View       map[string]any `json:"view"`

	client *Client
}

func (u *User) bind(c *Client) { u.client = c }

// selfResponse wraps the current user.
type selfResponse struct {
	User User `json:"user"`
}

func (s *selfResponse) bind(c *Client) { s.User.bind(c) }

type tokenResponse struct {
	Token string `json:"token" validate:"required"`
}

func (*tokenResponse) bind(*Client) {}

// Folder groups files.
type Folder struct {
	ID           string    `json:"id" validate:"required"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Name         string    `json:"name" validate:"required"`
	Public       bool      `json:"public"`
	AllowUploads bool      `json:"allowUploads"`
	UserID       string    `json:"userId"`
	// Files is nil when the folder was listed without its files.
	Files []File `json:"files" validate:"dive"`

	client *Client
}

func (f *Folder) bind(c *Client) {
	f.client = c
	for i := range f.Files {
		f.Files[i].bind(c)
	}
}

// InviteUser is the inviter summary embedded in an invite.
type InviteUser struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
}

// Invite is a registration code.
type Invite struct {
	ID        string      `json:"id" validate:"required"`
	Code      string      `json:"code" validate:"required"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	ExpiresAt *time.Time  `json:"expiresAt"`
	Uses      int         `json:"uses"`
	MaxUses   *int        `json:"maxUses"`
	InviterID string      `json:"inviterId"`
	Inviter   *InviteUser `json:"inviter"`

	client *Client
}

func (i *Invite) bind(c *Client) { i.client = c }

// ShortURL is a shortened link.
type ShortURL struct {
	ID          string    `json:"id" validate:"required"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Code        string    `json:"code"`
	Vanity      *string   `json:"vanity"`
	Destination string    `json:"destination" validate:"required"`
	Views       int       `json:"views"`
	MaxViews    *int      `json:"maxViews"`
	Enabled     bool      `json:"enabled"`
	UserID      string    `json:"userId"`
	URL         string    `json:"url"`

	client *Client
}

func (u *ShortURL) bind(c *Client) { u.client = c }

// UploadedFile is one entry of an upload response.
type UploadedFile struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	URL  string `json:"url" validate:"required"`
	Name string `json:"name"`
}

// UploadResponse is the JSON answer to an upload.
type UploadResponse struct {
	Files            []UploadedFile `json:"files" validate:"required,dive"`
	DeletesAt        *time.Time     `json:"deletesAt"`
	AssumedMimetypes []bool         `json:"assumedMimetypes"`
}

func (*UploadResponse) bind(*Client) {}

// Stats summarizes the current user's usage.
type Stats struct {
	FilesUploaded  int            `json:"filesUploaded"`
	FavoriteFiles  int            `json:"favoriteFiles"`
	Views          int            `json:"views"`
	AvgViews       float64        `json:"avgViews"`
	StorageUsed    int64          `json:"storageUsed"`
	AvgStorageUsed float64        `json:"avgStorageUsed"`
	URLsCreated    int            `json:"urlsCreated"`
	URLViews       int            `json:"urlViews"`
	SortTypeCount  map[string]int `json:"sortTypeCount"`
}

func (*Stats) bind(*Client) {}

// VersionInfo is the server's reported version.
type VersionInfo struct {
	Version string `json:"version" validate:"required"`
}

func (*VersionInfo) bind(*Client) {}

// ResultKind discriminates responses that are JSON or plain text depending on
// the X-Zipline-No-Json header.
type ResultKind int

const (
	ResultJSON ResultKind = iota
	ResultText
)

// UploadResult is the outcome of an upload: a decoded response or, with
// NoJSON set, the text the server returned.
type UploadResult struct {
	Kind     ResultKind
	Response *UploadResponse
	Text     string
}

// URLs returns the uploaded file links for either kind.
func (r *UploadResult) URLs() []string {
	if r.Kind == ResultText {
		if r.Text == "" {
			return nil
		}
		return []string{r.Text}
	}
	urls := make([]string, 0, len(r.Response.Files))
	for _, f := range r.Response.Files {
		urls = append(urls, f.URL)
	}
	return urls
}

// ShortenResult is the outcome of shortening a URL.
type ShortenResult struct {
	Kind ResultKind
	URL  *ShortURL
	Text string
}

// Link returns the shortened link for either kind.
func (r *ShortenResult) Link() string {
	if r.Kind == ResultText {
		return r.Text
	}
	return r.URL.FullURL()
}

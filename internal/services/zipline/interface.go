package zipline

import (
	"context"
	"iter"
)

// ClientAPI defines the Zipline operations used by the rest of the app.
// It mirrors the concrete client so it can be mocked in tests.
type ClientAPI interface {
	BaseURL() string
	Close()

	Upload(ctx context.Context, payload *UploadPayload, opts UploadOptions) (*UploadResult, error)
	ShortenURL(ctx context.Context, destination string, opts ShortenOptions) (*ShortenResult, error)

	ListFiles(ctx context.Context, opts ListFilesOptions) (*FilePage, error)
	IterFiles(ctx context.Context, opts ListFilesOptions) iter.Seq2[*File, error]
	GetFile(ctx context.Context, id string) (*File, error)
	EditFile(ctx context.Context, id string, edit FileEdit) (*File, error)
	DeleteFile(ctx context.Context, id string) (*File, error)
	RecentFiles(ctx context.Context, amount int, filter RecentFilter) ([]*File, error)
	ReadRaw(ctx context.Context, name, password string) ([]byte, error)
	FavoriteFiles(ctx context.Context, ids []string, favorite bool) (int, error)
	DeleteFiles(ctx context.Context, ids []string) (int, error)

	GetSelf(ctx context.Context) (*User, error)
	EditSelf(ctx context.Context, edit UserEdit) (*User, error)
	GetToken(ctx context.Context) (string, error)
	ResetToken(ctx context.Context) (string, error)
	ListUsers(ctx context.Context) ([]*User, error)
	CreateUser(ctx context.Context, opts CreateUserOptions) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	EditUser(ctx context.Context, id string, edit UserEdit) (*User, error)
	DeleteUser(ctx context.Context, id string, deleteData bool) (*User, error)

	ListFolders(ctx context.Context, withFiles bool) ([]*Folder, error)
	CreateFolder(ctx context.Context, opts CreateFolderOptions) (*Folder, error)
	GetFolder(ctx context.Context, id string) (*Folder, error)
	EditFolder(ctx context.Context, id string, edit FolderEdit) (*Folder, error)
	AddFileToFolder(ctx context.Context, folderID, fileID string) (*Folder, error)
	RemoveFileFromFolder(ctx context.Context, folderID, fileID string) (*Folder, error)
	DeleteFolder(ctx context.Context, id string) (*Folder, error)

	ListTags(ctx context.Context) ([]*Tag, error)
	CreateTag(ctx context.Context, name string, color Color) (*Tag, error)
	EditTag(ctx context.Context, id string, edit TagEdit) (*Tag, error)
	DeleteTag(ctx context.Context, id string) (*Tag, error)

	ListInvites(ctx context.Context) ([]*Invite, error)
	CreateInvite(ctx context.Context, opts CreateInviteOptions) (*Invite, error)
	GetInvite(ctx context.Context, id string) (*Invite, error)
	DeleteInvite(ctx context.Context, id string) (*Invite, error)

	ListURLs(ctx context.Context) ([]*ShortURL, error)
	GetURL(ctx context.Context, id string) (*ShortURL, error)
	EditURL(ctx context.Context, id string, edit URLEdit) (*ShortURL, error)
	DeleteURL(ctx context.Context, id string) (*ShortURL, error)

	Stats(ctx context.Context) (*Stats, error)
	ServerVersion(ctx context.Context) (*VersionInfo, error)
}

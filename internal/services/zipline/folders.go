package zipline

import (
	"context"
	"net/url"
)

// CreateFolderOptions describes a new folder.
type CreateFolderOptions struct {
	Name    string `validate:"required"`
	Public  bool
	FileIDs []string
}

// FolderEdit lists the fields of a folder to change. Unset fields are not sent.
type FolderEdit struct {
	Name         Optional[string]
	Public       Optional[bool]
	AllowUploads Optional[bool]
}

func (e FolderEdit) payload() map[string]any {
	p := map[string]any{}
	e.Name.setIn(p, "name")
	e.Public.setIn(p, "isPublic")
	e.AllowUploads.setIn(p, "allowUploads")
	return p
}

func folderRoute(method Method, id string) Route {
	return route(method, "/api/user/folders/%s", url.PathEscape(id))
}

// ListFolders returns the current user's folders, with their files when withFiles is set
func (c *Client) ListFolders(ctx context.Context, withFiles bool) ([]*Folder, error) {
	opts := &RequestOptions{}
	if !withFiles {
		opts.Params = url.Values{"noincl": {"true"}}
	}
	return callList[Folder](ctx, c, route(MethodGet, "/api/user/folders"), opts)
}

// CreateFolder creates a folder, optionally moving files into it
func (c *Client) CreateFolder(ctx context.Context, opts CreateFolderOptions) (*Folder, error) {
	if err := checkInput(opts); err != nil {
		return nil, err
	}
	payload := map[string]any{
		"name":     opts.Name,
		"isPublic": opts.Public,
	}
	if len(opts.FileIDs) > 0 {
		payload["files"] = opts.FileIDs
	}
	return call[Folder](ctx, c, route(MethodPost, "/api/user/folders"), jsonOpts(payload))
}

// GetFolder returns a folder by ID, including its files
func (c *Client) GetFolder(ctx context.Context, id string) (*Folder, error) {
	return call[Folder](ctx, c, folderRoute(MethodGet, id), nil)
}

// EditFolder updates a folder
func (c *Client) EditFolder(ctx context.Context, id string, edit FolderEdit) (*Folder, error) {
	return call[Folder](ctx, c, folderRoute(MethodPatch, id), jsonOpts(edit.payload()))
}

// AddFileToFolder moves a file into a folder
func (c *Client) AddFileToFolder(ctx context.Context, folderID, fileID string) (*Folder, error) {
	return call[Folder](ctx, c, folderRoute(MethodPut, folderID), jsonOpts(map[string]any{"id": fileID}))
}

// RemoveFileFromFolder takes a file out of a folder
func (c *Client) RemoveFileFromFolder(ctx context.Context, folderID, fileID string) (*Folder, error) {
	payload := map[string]any{"delete": "file", "id": fileID}
	return call[Folder](ctx, c, folderRoute(MethodDelete, folderID), jsonOpts(payload))
}

// DeleteFolder deletes a folder. Its files are kept.
func (c *Client) DeleteFolder(ctx context.Context, id string) (*Folder, error) {
	return call[Folder](ctx, c, folderRoute(MethodDelete, id), jsonOpts(map[string]any{"delete": "folder"}))
}

// Refresh reloads the folder from the server.
func (f *Folder) Refresh(ctx context.Context) error {
	if f.client == nil {
		return errUnbound
	}
	fresh, err := f.client.GetFolder(ctx, f.ID)
	if err != nil {
		return err
	}
	*f = *fresh
	return nil
}

// Edit applies edit and updates f in place.
func (f *Folder) Edit(ctx context.Context, edit FolderEdit) error {
	if f.client == nil {
		return errUnbound
	}
	updated, err := f.client.EditFolder(ctx, f.ID, edit)
	if err != nil {
		return err
	}
	*f = *updated
	return nil
}

// Delete removes the folder from the server.
func (f *Folder) Delete(ctx context.Context) error {
	if f.client == nil {
		return errUnbound
	}
	_, err := f.client.DeleteFolder(ctx, f.ID)
	return err
}

func (f *Folder) AddFile(ctx context.Context, file *File) error {
	if f.client == nil {
		return errUnbound
	}
	updated, err := f.client.AddFileToFolder(ctx, f.ID, file.ID)
	if err != nil {
		return err
	}
	*f = *updated
	return nil
}

func (f *Folder) RemoveFile(ctx context.Context, file *File) error {
	if f.client == nil {
		return errUnbound
	}
	updated, err := f.client.RemoveFileFromFolder(ctx, f.ID, file.ID)
	if err != nil {
		return err
	}
	*f = *updated
	return nil
}

package zipline

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strconv"

	"github.com/samber/lo"
)

// ListFilesOptions filters and orders a file listing. Zero values are left
// to the server's defaults.
type ListFilesOptions struct {
	Page        int `validate:"gte=0"`
	PerPage     int `validate:"gte=0"`
	Filter      FileFilter
	Favorite    bool
	SortBy      FileSearchSort
	Order       Order
	SearchField FileSearchField
	SearchQuery string
}

func (o ListFilesOptions) params() url.Values {
	page := o.Page
	if page == 0 {
		page = 1
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if o.PerPage > 0 {
		q.Set("perpage", strconv.Itoa(o.PerPage))
	}
	if o.Filter != "" {
		q.Set("filter", string(o.Filter))
	}
	if o.Favorite {
		q.Set("favorite", "true")
	}
	if o.SortBy != "" {
		q.Set("sortBy", string(o.SortBy))
	}
	if o.Order != "" {
		q.Set("order", string(o.Order))
	}
	if o.SearchQuery != "" {
		field := o.SearchField
		if field == "" {
			field = SearchFileName
		}
		q.Set("searchField", string(field))
		q.Set("searchQuery", o.SearchQuery)
	}
	return q
}

// ListFiles returns one page of the current user's files
func (c *Client) ListFiles(ctx context.Context, opts ListFilesOptions) (*FilePage, error) {
	if err := checkInput(opts); err != nil {
		return nil, err
	}
	return call[FilePage](ctx, c, route(MethodGet, "/api/user/files"), &RequestOptions{Params: opts.params()})
}

// IterFiles walks every page starting at opts.Page, stopping after the last
// page or at the first error. Files added or removed while iterating may be
// skipped or seen twice.
func (c *Client) IterFiles(ctx context.Context, opts ListFilesOptions) iter.Seq2[*File, error] {
	return func(yield func(*File, error) bool) {
		if opts.Page == 0 {
			opts.Page = 1
		}
		for {
			page, err := c.ListFiles(ctx, opts)
			if err != nil {
				yield(nil, err)
				return
			}
			for i := range page.Page {
				if !yield(&page.Page[i], nil) {
					return
				}
			}
			if len(page.Page) == 0 || opts.Page >= page.Pages {
				return
			}
			opts.Page++
		}
	}
}

// GetFile returns a single file by ID
func (c *Client) GetFile(ctx context.Context, id string) (*File, error) {
	return call[File](ctx, c, route(MethodGet, "/api/user/files/%s", url.PathEscape(id)), nil)
}

// FileEdit lists the fields of a file to change. Unset fields are not sent.
type FileEdit struct {
	Name         Optional[string]
	OriginalName Optional[string]
	Type         Optional[string]
	Favorite     Optional[bool]
	MaxViews     Optional[int]
	Password     Optional[string]
	Tags         Optional[[]string]
}

func (e FileEdit) payload() map[string]any {
	p := map[string]any{}
	e.Name.setIn(p, "name")
	e.OriginalName.setIn(p, "originalName")
	e.Type.setIn(p, "type")
	e.Favorite.setIn(p, "favorite")
	e.MaxViews.setIn(p, "maxViews")
	e.Password.setIn(p, "password")
	e.Tags.setIn(p, "tags")
	return p
}

// EditFile updates a file and returns its new state
func (c *Client) EditFile(ctx context.Context, id string, edit FileEdit) (*File, error) {
	if v, ok := edit.MaxViews.Get(); ok && v < 0 {
		return nil, fmt.Errorf("max views must not be negative, got %d", v)
	}
	return call[File](ctx, c, route(MethodPatch, "/api/user/files/%s", url.PathEscape(id)), jsonOpts(edit.payload()))
}

// DeleteFile deletes a file and returns what was deleted
func (c *Client) DeleteFile(ctx context.Context, id string) (*File, error) {
	return call[File](ctx, c, route(MethodDelete, "/api/user/files/%s", url.PathEscape(id)), nil)
}

type recentQuery struct {
	Take   int `validate:"min=1,max=50"`
	Filter RecentFilter
}

// RecentFiles returns the amount most recently uploaded files (1 to 50)
func (c *Client) RecentFiles(ctx context.Context, amount int, filter RecentFilter) ([]*File, error) {
	q := recentQuery{Take: amount, Filter: filter}
	if err := checkInput(q); err != nil {
		return nil, err
	}
	if q.Filter == "" {
		q.Filter = RecentAll
	}
	params := url.Values{}
	params.Set("take", strconv.Itoa(q.Take))
	params.Set("filter", string(q.Filter))
	return callList[File](ctx, c, route(MethodGet, "/api/user/recent"), &RequestOptions{Params: params})
}

// ReadRaw downloads the content of the file called name. password may be empty.
func (c *Client) ReadRaw(ctx context.Context, name, password string) ([]byte, error) {
	opts := &RequestOptions{}
	if password != "" {
		opts.Params = url.Values{"pw": {password}}
	}
	body, err := c.http.Request(ctx, route(MethodGet, "/raw/%s", url.PathEscape(name)), opts)
	if err != nil {
		return nil, err
	}
	if body.Kind == BodyBytes {
		return body.Bytes, nil
	}
	return []byte(body.String()), nil
}

// FavoriteFiles sets the favorite flag on many files at once and returns the
// number of files changed
func (c *Client) FavoriteFiles(ctx context.Context, ids []string, favorite bool) (int, error) {
	payload := map[string]any{"files": lo.Uniq(ids), "favorite": favorite}
	resp, err := call[countResponse](ctx, c, route(MethodPatch, "/api/user/files/transaction"), jsonOpts(payload))
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// DeleteFiles deletes many files at once and returns the number deleted
func (c *Client) DeleteFiles(ctx context.Context, ids []string) (int, error) {
	payload := map[string]any{"files": lo.Uniq(ids)}
	resp, err := call[countResponse](ctx, c, route(MethodDelete, "/api/user/files/transaction"), jsonOpts(payload))
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// FileIDs returns the IDs of files, in order.
func FileIDs(files []*File) []string {
	return lo.Map(files, func(f *File, _ int) string { return f.ID })
}

// FullURL returns the absolute link to the file.
func (f *File) FullURL() string {
	if f.client == nil {
		return f.URL
	}
	return f.client.fullURL(f.URL)
}

// Refresh reloads the file from the server.
func (f *File) Refresh(ctx context.Context) error {
	if f.client == nil {
		return errUnbound
	}
	fresh, err := f.client.GetFile(ctx, f.ID)
	if err != nil {
		return err
	}
	*f = *fresh
	return nil
}

// Edit applies edit and updates f in place.
func (f *File) Edit(ctx context.Context, edit FileEdit) error {
	if f.client == nil {
		return errUnbound
	}
	updated, err := f.client.EditFile(ctx, f.ID, edit)
	if err != nil {
		return err
	}
	*f = *updated
	return nil
}

// Delete removes the file from the server.
func (f *File) Delete(ctx context.Context) error {
	if f.client == nil {
		return errUnbound
	}
	_, err := f.client.DeleteFile(ctx, f.ID)
	return err
}

// Read downloads the file content.
func (f *File) Read(ctx context.Context, password string) ([]byte, error) {
	if f.client == nil {
		return nil, errUnbound
	}
	return f.client.ReadRaw(ctx, f.Name, password)
}

// AddToFolder moves the file into the folder with folderID.
func (f *File) AddToFolder(ctx context.Context, folderID string) error {
	if f.client == nil {
		return errUnbound
	}
	if _, err := f.client.AddFileToFolder(ctx, folderID, f.ID); err != nil {
		return err
	}
	f.FolderID = &folderID
	return nil
}

package zipline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL+"/dashboard", "test-token", WithHTTPClient(server.Client()))
	require.NoError(t, err)
	c.now = func() time.Time { return fixedNow }
	return c
}

func decodeRequest(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
	return payload
}

const fileJSON = `{
	"id": "f1",
	"createdAt": "2024-06-30T10:00:00.000Z",
	"updatedAt": "2024-06-30T10:00:00.000Z",
	"deletesAt": null,
	"favorite": false,
	"originalName": "cat.png",
	"name": "abc.png",
	"size": 2048,
	"type": "image/png",
	"views": 3,
	"maxViews": null,
	"folderId": null,
	"tags": [{"id": "t1", "name": "pets", "color": "#ff0000"}],
	"url": "/u/abc.png"
}`

func TestUploadSendsOnlySetHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/upload", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		assert.Equal(t, "uuid", r.Header.Get(HeaderFormat))
		assert.Equal(t, "0", r.Header.Get(HeaderMaxViews))
		assert.Equal(t, "date=2024-07-02T12:00:00.000000Z", r.Header.Get(HeaderDeletesAt))

		for _, h := range []string{
			HeaderPassword, HeaderFilename, HeaderOriginalName, HeaderFileExtension,
			HeaderFolder, HeaderDomain, HeaderCompressionPercent, HeaderNoJSON,
		} {
			_, present := r.Header[http.CanonicalHeaderKey(h)]
			assert.False(t, present, "header %s should be absent", h)
		}

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "cat.png", header.Filename)
		assert.Equal(t, "image/png", header.Header.Get("Content-Type"))

		writeJSON(w, http.StatusOK, map[string]any{
			"files":            []map[string]string{{"id": "f1", "type": "image/png", "url": "https://z.example.com/u/abc.png", "name": "abc.png"}},
			"deletesAt":        "2024-07-02T12:00:00.000Z",
			"assumedMimetypes": []bool{false},
		})
	})

	maxViews := 0
	result, err := c.Upload(context.Background(), NewUploadPayload("cat.png", []byte("not really png"), ""), UploadOptions{
		Format:   NameFormatUUID,
		MaxViews: &maxViews,
		Expiry:   ExpireAfter(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, ResultJSON, result.Kind)
	assert.Equal(t, []string{"https://z.example.com/u/abc.png"}, result.URLs())
	require.NotNil(t, result.Response.DeletesAt)
}

func TestUploadAllHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get(HeaderPassword))
		assert.Equal(t, "override", r.Header.Get(HeaderFilename))
		assert.Equal(t, "orig.png", r.Header.Get(HeaderOriginalName))
		assert.Equal(t, "webp", r.Header.Get(HeaderFileExtension))
		assert.Equal(t, "folder1", r.Header.Get(HeaderFolder))
		assert.Equal(t, "cdn.example.com", r.Header.Get(HeaderDomain))
		assert.Equal(t, "75", r.Header.Get(HeaderCompressionPercent))
		assert.Equal(t, "true", r.Header.Get(HeaderNoJSON))

		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "https://cdn.example.com/u/override.webp")
	})

	pct := 75
	result, err := c.Upload(context.Background(), NewUploadPayload("orig.png", []byte{1}, "image/png"), UploadOptions{
		CompressionPercent: &pct,
		Password:           "secret",
		OverrideName:       "override",
		OriginalName:       "orig.png",
		FileExtension:      "webp",
		Folder:             "folder1",
		Domain:             "cdn.example.com",
		NoJSON:             true,
	})
	require.NoError(t, err)
	assert.Equal(t, ResultText, result.Kind)
	assert.Equal(t, "https://cdn.example.com/u/override.webp", result.Text)
	assert.Equal(t, []string{result.Text}, result.URLs())
}

func TestUploadValidatesOptionsBeforeRequest(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	payload := NewUploadPayload("a.txt", []byte("a"), "")

	over := 101
	_, err := c.Upload(context.Background(), payload, UploadOptions{CompressionPercent: &over})
	assert.Error(t, err)

	negative := -1
	_, err = c.Upload(context.Background(), payload, UploadOptions{MaxViews: &negative})
	assert.Error(t, err)

	_, err = c.Upload(context.Background(), nil, UploadOptions{})
	assert.Error(t, err)

	assert.False(t, called)
}

func TestUploadMissingFilesIsDecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"deletesAt": nil})
	})

	_, err := c.Upload(context.Background(), NewUploadPayload("a.txt", []byte("a"), ""), UploadOptions{})
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.ErrorIs(t, err, ErrZipline)
}

func TestPayloadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.gif")
	require.NoError(t, os.WriteFile(path, []byte("GIF89a...."), 0o644))

	payload, err := PayloadFromPath(path, "")
	require.NoError(t, err)
	assert.Equal(t, "image.gif", payload.Filename)
	assert.Equal(t, "image/gif", payload.ContentType)

	_, err = PayloadFromPath(filepath.Join(t.TempDir(), "missing"), "")
	assert.Error(t, err)
}

func TestShortenURL(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user/urls", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "3", r.Header.Get(HeaderMaxViews))
		_, hasPassword := r.Header[http.CanonicalHeaderKey(HeaderPassword)]
		assert.False(t, hasPassword)

		payload := decodeRequest(t, r)
		assert.Equal(t, "https://example.com/long", payload["destination"])
		assert.Equal(t, "short", payload["vanity"])
		assert.Equal(t, true, payload["enabled"])

		writeJSON(w, http.StatusOK, map[string]any{
			"id": "u1", "code": "abc", "vanity": "short", "destination": "https://example.com/long",
			"views": 0, "enabled": true, "url": "/go/short",
		})
	})

	views := 3
	result, err := c.ShortenURL(context.Background(), "https://example.com/long", ShortenOptions{Vanity: "short", MaxViews: &views})
	require.NoError(t, err)
	assert.Equal(t, ResultJSON, result.Kind)
	assert.Equal(t, c.BaseURL()+"/go/short", result.Link())
}

func TestShortenURLNoJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.Header.Get(HeaderNoJSON))
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "https://z.example.com/go/abc")
	})

	result, err := c.ShortenURL(context.Background(), "https://example.com", ShortenOptions{NoJSON: true})
	require.NoError(t, err)
	assert.Equal(t, ResultText, result.Kind)
	assert.Equal(t, "https://z.example.com/go/abc", result.Link())
}

func TestShortenURLAuthFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not logged in"})
	})

	_, err := c.ShortenURL(context.Background(), "https://example.com", ShortenOptions{})
	assert.True(t, IsAuthError(err))
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestGetFileDecodesAndBinds(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user/files/f1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, fileJSON)
	})

	file, err := c.GetFile(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, "abc.png", file.Name)
	assert.Equal(t, int64(2048), file.Size)
	require.NotNil(t, file.OriginalName)
	assert.Equal(t, "cat.png", *file.OriginalName)
	assert.Nil(t, file.MaxViews)
	require.Len(t, file.Tags, 1)
	assert.Equal(t, Color(0xFF0000), file.Tags[0].Color)
	assert.Same(t, c, file.client)
	assert.Same(t, c, file.Tags[0].client)
	assert.Equal(t, c.BaseURL()+"/u/abc.png", file.FullURL())
}

func TestGetFileMissingIDIsDecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"name": "abc.png", "size": 1})
	})

	_, err := c.GetFile(context.Background(), "f1")
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Contains(t, decodeErr.Type, "File")
}

func TestGetFileTextBodyIsDecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<html></html>")
	})

	_, err := c.GetFile(context.Background(), "f1")
	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestFileModelActions(t *testing.T) {
	var edits []map[string]any
	deleted := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPatch && r.URL.Path == "/api/user/files/f1":
			edits = append(edits, decodeRequest(t, r))
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"id":"f1","name":"abc.png","favorite":true,"url":"/u/abc.png"}`)
		case r.Method == http.MethodDelete && r.URL.Path == "/api/user/files/f1":
			deleted = true
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, fileJSON)
		case r.Method == http.MethodGet && r.URL.Path == "/raw/abc.png":
			assert.Equal(t, "pw1", r.URL.Query().Get("pw"))
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = w.Write([]byte{0, 1, 2})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
		}
	})

	file := &File{ID: "f1", Name: "abc.png", client: c}
	require.NoError(t, file.Edit(context.Background(), FileEdit{Favorite: Some(true), MaxViews: Null[int]()}))
	assert.True(t, file.Favorite)
	require.Len(t, edits, 1)
	assert.Equal(t, map[string]any{"favorite": true, "maxViews": nil}, edits[0])

	data, err := file.Read(context.Background(), "pw1")
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2}, data)

	require.NoError(t, file.Delete(context.Background()))
	assert.True(t, deleted)
}

func TestUnboundModelActions(t *testing.T) {
	file := &File{ID: "f1", URL: "/u/a.png"}
	assert.Error(t, file.Refresh(context.Background()))
	assert.Error(t, file.Delete(context.Background()))
	assert.Equal(t, "/u/a.png", file.FullURL())

	folder := &Folder{ID: "d1"}
	assert.Error(t, folder.Delete(context.Background()))
	assert.ErrorIs(t, (&User{}).Refresh(context.Background()), ErrZipline)
}

func TestEditFileRejectsNegativeMaxViews(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	_, err := c.EditFile(context.Background(), "f1", FileEdit{MaxViews: Some(-2)})
	assert.Error(t, err)
}

func TestIterFilesVisitsEveryPage(t *testing.T) {
	var requested []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		requested = append(requested, page)
		assert.Equal(t, "2", r.URL.Query().Get("perpage"))

		n, _ := strconv.Atoi(page)
		files := []map[string]any{
			{"id": "f" + strconv.Itoa(n*2-1), "name": "a"},
			{"id": "f" + strconv.Itoa(n*2), "name": "b"},
		}
		if n == 3 {
			files = files[:1]
		}
		writeJSON(w, http.StatusOK, map[string]any{"page": files, "total": 5, "pages": 3})
	})

	var ids []string
	for file, err := range c.IterFiles(context.Background(), ListFilesOptions{PerPage: 2}) {
		require.NoError(t, err)
		ids = append(ids, file.ID)
	}
	assert.Equal(t, []string{"f1", "f2", "f3", "f4", "f5"}, ids)
	assert.Equal(t, []string{"1", "2", "3"}, requested)
}

func TestIterFilesStopsOnError(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"page": []map[string]any{{"id": "f1", "name": "a"}}, "total": 3, "pages": 3})
	})

	var errs []error
	count := 0
	for file, err := range c.IterFiles(context.Background(), ListFilesOptions{}) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		assert.NotNil(t, file)
		count++
	}
	assert.Equal(t, 1, count)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrServerError)
}

func TestIterFilesEarlyBreak(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeJSON(w, http.StatusOK, map[string]any{
			"page": []map[string]any{{"id": "f1", "name": "a"}, {"id": "f2", "name": "b"}}, "total": 10, "pages": 5,
		})
	})

	for range c.IterFiles(context.Background(), ListFilesOptions{}) {
		break
	}
	assert.Equal(t, 1, calls)
}

func TestListFilesParams(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "1", q.Get("page"))
		assert.Equal(t, "dashboard", q.Get("filter"))
		assert.Equal(t, "true", q.Get("favorite"))
		assert.Equal(t, "size", q.Get("sortBy"))
		assert.Equal(t, "desc", q.Get("order"))
		assert.Equal(t, "name", q.Get("searchField"))
		assert.Equal(t, "cat", q.Get("searchQuery"))
		writeJSON(w, http.StatusOK, map[string]any{"page": []any{}, "total": 0, "pages": 0})
	})

	page, err := c.ListFiles(context.Background(), ListFilesOptions{
		Filter: FilterDashboard, Favorite: true, SortBy: SortSize, Order: OrderDesc, SearchQuery: "cat",
	})
	require.NoError(t, err)
	assert.Empty(t, page.Page)
}

func TestRecentFilesValidatesAmount(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user/recent", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("take"))
		assert.Equal(t, "all", r.URL.Query().Get("filter"))
		writeJSON(w, http.StatusOK, []map[string]any{{"id": "f1", "name": "a"}})
	})

	for _, bad := range []int{0, -1, 51} {
		_, err := c.RecentFiles(context.Background(), bad, RecentAll)
		assert.Error(t, err, "amount %d", bad)
	}

	files, err := c.RecentFiles(context.Background(), 50, "")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Same(t, c, files[0].client)
}

func TestBulkFileOperations(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user/files/transaction", r.URL.Path)
		payload := decodeRequest(t, r)
		assert.Equal(t, []any{"a", "b"}, payload["files"])
		if r.Method == http.MethodPatch {
			assert.Equal(t, true, payload["favorite"])
		}
		writeJSON(w, http.StatusOK, map[string]int{"count": 2})
	})

	n, err := c.FavoriteFiles(context.Background(), []string{"a", "b", "a"}, true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = c.DeleteFiles(context.Background(), FileIDs([]*File{{ID: "a"}, {ID: "b"}}))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestEditUserQuota(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/users/u1", r.URL.Path)
		payload := decodeRequest(t, r)
		assert.Equal(t, "ADMIN", payload["role"])
		assert.NotContains(t, payload, "username")
		assert.Equal(t, map[string]any{"filesType": "BY_BYTES", "maxBytes": "1000", "maxUrls": nil}, payload["quota"])
		writeJSON(w, http.StatusOK, map[string]any{"id": "u1", "username": "ada", "role": "ADMIN"})
	})

	user, err := c.EditUser(context.Background(), "u1", UserEdit{
		Role:  Some(RoleAdmin),
		Quota: &QuotaEdit{Type: QuotaByBytes, Value: 1000, MaxURLs: Null[int]()},
	})
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, user.Role)
}

func TestGetSelfAndToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/user":
			writeJSON(w, http.StatusOK, map[string]any{"user": map[string]any{
				"id": "u1", "username": "ada", "role": "USER", "avatar": EncodeAvatar("image/png", []byte{1, 2}),
			}})
		case "/api/user/token":
			writeJSON(w, http.StatusOK, map[string]any{"token": "tok-2"})
		}
	})

	user, err := c.GetSelf(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)
	mimeType, data, err := user.AvatarData()
	require.NoError(t, err)
	assert.Equal(t, "image/png", mimeType)
	assert.Equal(t, []byte{1, 2}, data)

	token, err := c.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token)
}

func TestCreateUserRequiresCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	_, err := c.CreateUser(context.Background(), CreateUserOptions{Username: "ada"})
	assert.Error(t, err)
}

func TestFolderActions(t *testing.T) {
	var bodies []map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			assert.Equal(t, "true", r.URL.Query().Get("noincl"))
			writeJSON(w, http.StatusOK, []map[string]any{{"id": "d1", "name": "pics", "public": false}})
			return
		}
		assert.Equal(t, "/api/user/folders/d1", r.URL.Path)
		bodies = append(bodies, decodeRequest(t, r))
		writeJSON(w, http.StatusOK, map[string]any{"id": "d1", "name": "pics", "files": []map[string]any{{"id": "f1", "name": "a"}}})
	})

	folders, err := c.ListFolders(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, folders, 1)
	folder := folders[0]

	require.NoError(t, folder.AddFile(context.Background(), &File{ID: "f1"}))
	require.Len(t, folder.Files, 1)
	assert.Same(t, c, folder.Files[0].client)

	require.NoError(t, folder.RemoveFile(context.Background(), &File{ID: "f1"}))
	require.NoError(t, folder.Delete(context.Background()))

	assert.Equal(t, []map[string]any{
		{"id": "f1"},
		{"delete": "file", "id": "f1"},
		{"delete": "folder"},
	}, bodies)
}

func TestCreateTagAndInvite(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		payload := decodeRequest(t, r)
		switch r.URL.Path {
		case "/api/user/tags":
			assert.Equal(t, map[string]any{"name": "pets", "color": "#00ff00"}, payload)
			writeJSON(w, http.StatusOK, map[string]any{"id": "t1", "name": "pets", "color": "#00ff00"})
		case "/api/auth/invites":
			assert.Equal(t, "date=2024-07-08T12:00:00.000000Z", payload["expiresAt"])
			assert.Equal(t, float64(3), payload["maxUses"])
			writeJSON(w, http.StatusOK, map[string]any{"id": "i1", "code": "xyz", "uses": 0})
		}
	})

	tag, err := c.CreateTag(context.Background(), "pets", ColorFromRGB(0, 255, 0))
	require.NoError(t, err)
	assert.Equal(t, Color(0x00FF00), tag.Color)

	invite, err := c.CreateInvite(context.Background(), CreateInviteOptions{
		Expiry: ExpireAfter(7 * 24 * time.Hour), MaxUses: Some(3),
	})
	require.NoError(t, err)
	assert.Equal(t, c.BaseURL()+"/auth/register?code=xyz", invite.URL())
}

func TestCreateInviteNeverExpires(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		payload := decodeRequest(t, r)
		assert.Equal(t, map[string]any{"expiresAt": "never"}, payload)
		writeJSON(w, http.StatusOK, map[string]any{"id": "i1", "code": "xyz"})
	})

	_, err := c.CreateInvite(context.Background(), CreateInviteOptions{})
	require.NoError(t, err)
}

func TestServerVersion(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/version", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]string{"version": "4.1.2"})
	})

	info, err := c.ServerVersion(context.Background())
	require.NoError(t, err)
	assert.NoError(t, CheckServerVersion(info.Version))
}

func TestCheckServerVersion(t *testing.T) {
	assert.NoError(t, CheckServerVersion("4.0.0"))
	assert.NoError(t, CheckServerVersion("v4.2.0-beta.1"))
	assert.Error(t, CheckServerVersion("3.7.10"))
	assert.Error(t, CheckServerVersion("5.0.0"))
	assert.Error(t, CheckServerVersion("latest"))
}

func TestNewAPIError(t *testing.T) {
	err := NewAPIError(http.StatusForbidden, "nope")
	assert.True(t, IsAuthError(err))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "nope", apiErr.Message)
	assert.Nil(t, NewAPIError(http.StatusOK, ""))
}

func TestClosedClient(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	c.Close()
	_, err := c.Stats(context.Background())
	assert.ErrorIs(t, err, ErrClientClosed)
}

package zipline

import "fmt"

// NameFormat selects how the server names an uploaded file.
type NameFormat string

const (
	NameFormatRandom   NameFormat = "random"
	NameFormatUUID     NameFormat = "uuid"
	NameFormatDate     NameFormat = "date"
	NameFormatOriginal NameFormat = "name"
	NameFormatGfycat   NameFormat = "gfycat"
)

// NameFormats lists every NameFormat, in the order the CLI documents them.
var NameFormats = []NameFormat{NameFormatRandom, NameFormatUUID, NameFormatDate, NameFormatOriginal, NameFormatGfycat}

// ParseNameFormat validates s as a NameFormat.
func ParseNameFormat(s string) (NameFormat, error) {
	for _, f := range NameFormats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown name format %q (expected one of %v)", s, NameFormats)
}

// UserRole is the role of a user account.
type UserRole string

const (
	RoleUser       UserRole = "USER"
	RoleAdmin      UserRole = "ADMIN"
	RoleSuperAdmin UserRole = "SUPERADMIN"
)

// QuotaType is the kind of limit applied to a user.
type QuotaType string

const (
	QuotaByBytes QuotaType = "BY_BYTES"
	QuotaByFiles QuotaType = "BY_FILES"
	QuotaNone    QuotaType = "NONE"
)

// Order is a sort direction.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// FileSearchField is a field files can be searched by.
type FileSearchField string

const (
	SearchFileName     FileSearchField = "name"
	SearchOriginalName FileSearchField = "originalName"
	SearchType         FileSearchField = "type"
	SearchTags         FileSearchField = "tags"
	SearchID           FileSearchField = "id"
)

// FileSearchSort is a field files can be ordered by.
type FileSearchSort string

const (
	SortID           FileSearchSort = "id"
	SortCreatedAt    FileSearchSort = "createdAt"
	SortUpdatedAt    FileSearchSort = "updatedAt"
	SortDeletesAt    FileSearchSort = "deletesAt"
	SortName         FileSearchSort = "name"
	SortOriginalName FileSearchSort = "originalName"
	SortSize         FileSearchSort = "size"
	SortType         FileSearchSort = "type"
	SortViews        FileSearchSort = "views"
	SortFavorite     FileSearchSort = "favorite"
)

// FileFilter restricts file listings.
type FileFilter string

const (
	FilterAll       FileFilter = "all"
	FilterNone      FileFilter = "none"
	FilterDashboard FileFilter = "dashboard"
)

// RecentFilter restricts the recent files listing.
type RecentFilter string

const (
	RecentAll   RecentFilter = "all"
	RecentMedia RecentFilter = "media"
)

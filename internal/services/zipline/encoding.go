package zipline

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// isoLayout is the timestamp form the server accepts: microseconds and a literal Z.
const isoLayout = "2006-01-02T15:04:05.000000Z"

// ParseISOTimestamp parses YYYY-MM-DDTHH:MM:SS.ffffffZ into a UTC time.
func ParseISOTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(isoLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid iso timestamp %q: %w", s, err)
	}
	return t, nil
}

// FormatISOTimestamp formats t in UTC as YYYY-MM-DDTHH:MM:SS.ffffffZ.
// Sub-microsecond precision is truncated.
func FormatISOTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Microsecond).Format(isoLayout)
}

// Expiry is either an absolute point in time or a duration from now.
type Expiry struct {
	at    time.Time
	after time.Duration
}

// ExpireAt returns an absolute Expiry.
func ExpireAt(t time.Time) Expiry {
	return Expiry{at: t}
}

// ExpireAfter returns an Expiry relative to the moment it is resolved.
func ExpireAfter(d time.Duration) Expiry {
	return Expiry{after: d}
}

// IsZero reports whether e was never set.
func (e Expiry) IsZero() bool {
	return e.at.IsZero() && e.after == 0
}

// Resolve returns the absolute time of e, adding a relative duration to now (in UTC).
func (e Expiry) Resolve(now time.Time) time.Time {
	if !e.at.IsZero() {
		return e.at
	}
	return now.UTC().Add(e.after)
}

// ParseExpiry accepts a Go duration ("36h"), a day count ("7d") or an
// ISO-8601 / RFC 3339 timestamp.
func ParseExpiry(s string) (Expiry, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Expiry{}, fmt.Errorf("empty expiry")
	}
	if days, ok := strings.CutSuffix(s, "d"); ok {
		if n, err := strconv.Atoi(days); err == nil && n > 0 {
			return ExpireAfter(time.Duration(n) * 24 * time.Hour), nil
		}
	}
	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return Expiry{}, fmt.Errorf("expiry duration must be positive: %s", s)
		}
		return ExpireAfter(d), nil
	}
	if t, err := ParseISOTimestamp(s); err == nil {
		return ExpireAt(t), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ExpireAt(t), nil
	}
	return Expiry{}, fmt.Errorf("invalid expiry %q: expected a duration, a day count like 7d or a timestamp", s)
}

// expiryValue renders an Expiry the way the server expects dates: "date=<iso>".
func expiryValue(e Expiry, now time.Time) string {
	return "date=" + FormatISOTimestamp(e.Resolve(now))
}

// QuotaPayload builds the quota object of a user edit.
//
//   - QuotaByBytes: maxBytes is value as a string
//   - QuotaByFiles: maxFiles is value as an integer
//   - QuotaNone: maxBytes and maxFiles are both present and null
//
// maxURLs is included when it is Null or holds a value and left out when Unset.
func QuotaPayload(kind QuotaType, value int64, maxURLs Optional[int]) map[string]any {
	payload := map[string]any{
		"filesType": string(kind),
	}

	switch kind {
	case QuotaByBytes:
		payload["maxBytes"] = strconv.FormatInt(value, 10)
	case QuotaByFiles:
		payload["maxFiles"] = value
	case QuotaNone:
		payload["maxBytes"] = nil
		payload["maxFiles"] = nil
	}

	maxURLs.setIn(payload, "maxUrls")
	return payload
}

// EncodeAvatar returns data as a data URI: data:<mime>;base64,<payload>.
func EncodeAvatar(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeAvatar is the inverse of EncodeAvatar.
func DecodeAvatar(s string) (mimeType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, fmt.Errorf("avatar is not a data uri")
	}
	mimeType, encoded, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return "", nil, fmt.Errorf("avatar data uri is not base64 encoded")
	}
	data, err = base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, fmt.Errorf("decoding avatar: %w", err)
	}
	return mimeType, data, nil
}

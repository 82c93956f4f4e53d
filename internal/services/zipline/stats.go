package zipline

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// SupportedServerVersions is the range of server versions this client speaks to.
const SupportedServerVersions = ">= 4.0.0-0, < 5.0.0-0"

var supportedServers = mustConstraint(SupportedServerVersions)

func mustConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Stats returns usage statistics of the current user
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	return call[Stats](ctx, c, route(MethodGet, "/api/user/stats"), nil)
}

// ServerVersion returns the version the server reports
func (c *Client) ServerVersion(ctx context.Context) (*VersionInfo, error) {
	return call[VersionInfo](ctx, c, route(MethodGet, "/api/version"), nil)
}

// CheckServerVersion returns an error when version is not a semantic version
// or falls outside SupportedServerVersions.
func CheckServerVersion(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("server version %q: %w", version, err)
	}
	if !supportedServers.Check(v) {
		return fmt.Errorf("server version %s is not supported (need %s)", v, SupportedServerVersions)
	}
	return nil
}

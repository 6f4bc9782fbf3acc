// SPDX-License-Identifier: MIT
//
// Package build exposes metadata embedded at link time, for example:
//
//	go build -ldflags "-X rowwarp/pkg/build.buildName=rowwarp \
//	  -X rowwarp/pkg/build.buildVersion=0.3.0 \
//	  -X rowwarp/pkg/build.buildCommit=$(git rev-parse --short HEAD) \
//	  -X rowwarp/pkg/build.buildTime=$(date -u +%FT%TZ)"
//
// Development builds keep the defaults.
package build

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrMissingFlag is returned by Initialize when a link-time value is unset.
var ErrMissingFlag = errors.New("build: link-time value missing")

// Info is the build metadata.
type Info struct {
	Name    string
	Time    string
	Commit  string
	Version string
}

// String formats the version line shown by --version and the startup log.
func (i Info) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", i.Name, i.Version, i.Commit, i.Time)
}

// Populated by -ldflags.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildFlags   = &Info{
		Name:    "rowwarp",
		Time:    "unknown",
		Commit:  "unknown",
		Version: "dev",
	}
)

// Initialize copies the link-time values into the build info. It returns
// ErrMissingFlag, and leaves the defaults in place, if any is missing.
func Initialize() error {
	for _, f := range []struct{ name, value string }{
		{"buildName", buildName},
		{"buildTime", buildTime},
		{"buildCommit", buildCommit},
		{"buildVersion", buildVersion},
	} {
		if f.value == "" {
			return errors.Wrap(ErrMissingFlag, f.name)
		}
	}

	buildFlags.Name = buildName
	buildFlags.Time = buildTime
	buildFlags.Commit = buildCommit
	buildFlags.Version = buildVersion
	return nil
}

// GetBuildFlags returns the current build information.
func GetBuildFlags() *Info {
	return buildFlags
}

// Package version carries build metadata. The variables are set with -ldflags:
//
//	-X flexir/internal/version.Version=0.2.0 -X flexir/internal/version.GitCommit=$(git rev-parse HEAD)
package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
)

var (
	Version   = "0.1.0-dev"
	GitCommit = ""
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Info is a snapshot of the build metadata.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

func Current() Info {
	v := strings.TrimSpace(Version)
	if v == "" {
		v = "dev"
	}
	return Info{
		Version:   v,
		GitCommit: strings.TrimSpace(GitCommit),
		BuildDate: strings.TrimSpace(BuildDate),
	}
}

// Semver parses the version; "dev" and other free-form strings fail.
func (i Info) Semver() (*semver.Version, error) {
	return semver.NewVersion(i.Version)
}

// Colored renders the version with one colour per component. Free-form
// versions are returned as is.
func (i Info) Colored(enabled bool) string {
	v, err := i.Semver()
	if err != nil {
		return i.Version
	}
	paint := func(c *color.Color, n uint64) string {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.Sprint(n)
	}
	out := paint(majorColor, v.Major()) + "." + paint(minorColor, v.Minor()) + "." + paint(patchColor, v.Patch())
	if pre := v.Prerelease(); pre != "" {
		out += "-" + pre
	}
	if meta := v.Metadata(); meta != "" {
		out += "+" + meta
	}
	return out
}

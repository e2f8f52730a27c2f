// Package version reports the build version and checks version constraints
// declared by schema files.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// Set at link time with -ldflags "-X". Empty build values fall back to the
// VCS stamp Go embeds in the binary.
var (
	Version   = "0.1.0"
	BuildDate = ""
	GitCommit = ""
)

// Info describes the running binary.
type Info struct {
	Version   string
	BuildDate string
	GitCommit string
	Modified  bool
	GoVersion string
	Platform  string
}

// Get returns version information for the running binary.
func Get() Info {
	info := Info{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.fromBuildSettings(bi.Settings)
	}
	if info.BuildDate == "" {
		info.BuildDate = "unknown"
	}
	if info.GitCommit == "" {
		info.GitCommit = "unknown"
	}
	return info
}

func (i *Info) fromBuildSettings(settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if i.GitCommit == "" {
				i.GitCommit = s.Value
				if len(i.GitCommit) > 12 {
					i.GitCommit = i.GitCommit[:12]
				}
			}
		case "vcs.time":
			if i.BuildDate == "" {
				i.BuildDate = s.Value
			}
		case "vcs.modified":
			i.Modified = s.Value == "true"
		}
	}
}

// String is the one-line form printed by --version.
func (i Info) String() string {
	return fmt.Sprintf("rowmap version %s (%s %s)", i.Version, i.Platform, i.GoVersion)
}

// FullString lists every field, one per line.
func (i Info) FullString() string {
	commit := i.GitCommit
	if i.Modified {
		commit += " (modified)"
	}
	lines := []string{
		"rowmap version " + i.Version,
		"Build Date: " + i.BuildDate,
		"Git Commit: " + commit,
		"Platform: " + i.Platform,
		"Go Version: " + i.GoVersion,
	}
	return strings.Join(lines, "\n")
}

// Satisfies reports whether current meets constraint, e.g. ">= 0.1.0, < 1.0".
func Satisfies(current, constraint string) (bool, error) {
	v, err := goversion.NewVersion(current)
	if err != nil {
		return false, fmt.Errorf("invalid version %q: %w", current, err)
	}
	c, err := goversion.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	return c.Check(v), nil
}

package fetch

import (
	"fmt"
	"runtime"
	"strings"
)

// Kind tells where page content for a location lives.
type Kind int

const (
	Remote Kind = iota
	Local
)

func (k Kind) String() string {
	switch k {
	case Local:
		return "local"
	case Remote:
		return "remote"
	}
	return "unknown"
}

// Classify reports whether location names a local file or a remote resource.
// A location is local when it starts with '~' or '.'; anything else, the empty
// string included, is remote. Nothing is validated here.
func Classify(location string) Kind {
	if location == "" {
		return Remote
	}
	switch location[0] {
	case '~', '.':
		return Local
	}
	return Remote
}

// TildePolicy controls how a leading '~' in a local location is handled
// before the file is opened.
type TildePolicy string

const (
	// TildeAlways rewrites a leading '~' to '.' on every platform.
	TildeAlways TildePolicy = "always"
	// TildeWindows rewrites only when running on Windows.
	TildeWindows TildePolicy = "windows"
	// TildeNever opens the path as written.
	TildeNever TildePolicy = "never"
)

// ParseTildePolicy accepts the policy names used in flags and config files.
// An empty string selects TildeAlways.
func ParseTildePolicy(s string) (TildePolicy, error) {
	switch p := TildePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return TildeAlways, nil
	case TildeAlways, TildeWindows, TildeNever:
		return p, nil
	}
	return "", fmt.Errorf("unknown tilde policy %q (want always, windows or never)", s)
}

// LocalPath maps a local location to the path handed to the filesystem.
func LocalPath(location string, policy TildePolicy) string {
	if !strings.HasPrefix(location, "~") {
		return location
	}
	switch policy {
	case TildeNever:
		return location
	case TildeWindows:
		if runtime.GOOS != "windows" {
			return location
		}
	}
	return "." + location[1:]
}

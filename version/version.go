package version

import (
	"fmt"
	"strings"
	"sync"
)

const (
	appMajor uint = 0
	appMinor uint = 1
	appPatch uint = 0
)

// buildCharacters are the characters allowed in appBuild
const buildCharacters = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-."

// appBuild can be set at link time with
// -ldflags "-X github.com/kaspanet/ledgerd/version.appBuild=foo"
var appBuild string

var (
	version     string
	versionOnce sync.Once
)

// Version returns the ledgerd version in the form major.minor.patch, followed
// by -build if a valid build string was linked in
func Version() string {
	versionOnce.Do(func() {
		version = formatVersion(appMajor, appMinor, appPatch, appBuild)
	})
	return version
}

func formatVersion(major, minor, patch uint, build string) string {
	formatted := fmt.Sprintf("%d.%d.%d", major, minor, patch)
	if build == "" {
		return formatted
	}
	for _, r := range build {
		if !strings.ContainsRune(buildCharacters, r) {
			return formatted
		}
	}
	return formatted + "-" + build
}

// Copyright (c) 2020 Shivaram Lingamneni
// released under the MIT license

package irc

import (
	"fmt"
)

const (
	// SemVer is the semantic version of ircd-pony.
	SemVer = "0.3.0"
)

var (
	// Commit is the full git hash, if available
	Commit string

	// Ver is the full version of ircd-pony, used in responses to clients.
	Ver = SemVer
)

// SetVersionString initializes the version strings (these are set in main
// via linker flags, to propagate the build information).
func SetVersionString(version, commit string) {
	Commit = commit
	if version != "" {
		Ver = version
	} else if commit != "" {
		Ver = fmt.Sprintf("%s-%s", SemVer, commit)
	}
}

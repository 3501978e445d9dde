// Package version holds build information of the shacl binary.
package version

import "fmt"

var (
	Version = "0.1.0"

	// git hash should be filled by:
	// 	go build -ldflags="-X github.com/cayleygraph/shacl/version.GitHash=xxxx"

	GitHash   = "dev snapshot"
	BuildDate string
)

// String returns a one-line description of the build.
func String() string {
	s := fmt.Sprintf("shacl %s (%s)", Version, GitHash)
	if BuildDate != "" {
		s += " built " + BuildDate
	}
	return s
}

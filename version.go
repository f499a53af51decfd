package ledger

// Release of this code base. GitCommit is set at build time with
//
//	-ldflags "-X github.com/iov-one/ledger.GitCommit=$(git rev-parse --short HEAD)"
const Release = "v0.1.0"

// GitCommit is the commit the binary was built from, if known.
var GitCommit = ""

// Version is the release, followed by the commit when it is known.
func Version() string {
	if GitCommit == "" {
		return Release
	}
	return Release + " " + GitCommit
}

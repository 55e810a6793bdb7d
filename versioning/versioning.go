package versioning

// Set with -ldflags "-X" at build time, following SemVer
var (
	Version   = "0.1.0-dev" // the release the binary belongs to
	Commit    string        // the git commit that the binary was built on
	BuildTime string        // the timestamp of the build
)

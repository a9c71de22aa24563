package buildconfig

// Build-time variables injected via ldflags:
//
//	-X github.com/Harshitk-cp/leaddesk/internal/buildconfig.version=v1.2.0
var (
	version = "dev"
	commit  = "unknown"
)

// Info is reported by the health endpoint and the CLI version command.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

func Version() string {
	return version
}

func Commit() string {
	return commit
}

func Get() Info {
	return Info{Version: version, Commit: commit}
}

func (i Info) String() string {
	return i.Version + " (" + i.Commit + ")"
}

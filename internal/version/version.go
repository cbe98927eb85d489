package version // import "github.com/Xunop/json2epub/internal/version"

// Version and Commit are set at build time with -ldflags "-X".
var (
	Version = "dev"
	Commit  = "unknown"
)

func GetCurrentVersion() string {
	if Commit == "unknown" || Commit == "" {
		return Version
	}
	return Version + " (" + Commit + ")"
}

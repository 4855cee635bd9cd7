package handler

import (
	"net/http"
	"os"
	"runtime"
	"runtime/debug"
)

// VersionInfo describes the running binary
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	BuildTime string `json:"build_time,omitempty"`
	GitCommit string `json:"git_commit,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
}

// Set with -ldflags "-X github.com/osse101/ashfall/internal/handler.Version=..."
var Version, BuildTime, GitCommit string

func HandleVersion() http.HandlerFunc {
	info := CurrentVersion()
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, info)
	}
}

// CurrentVersion prefers ldflags values, then $VERSION, then the VCS stamp
// the go tool embeds in the binary.
func CurrentVersion() VersionInfo {
	info := VersionInfo{
		Version:   firstNonEmpty(Version, os.Getenv(EnvVersion)),
		GoVersion: runtime.Version(),
		BuildTime: BuildTime,
		GitCommit: GitCommit,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		applyBuildInfo(&info, bi)
	}
	if info.Version == "" {
		info.Version = DefaultVersion
	}
	return info
}

func applyBuildInfo(info *VersionInfo, bi *debug.BuildInfo) {
	if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.GitCommit = firstNonEmpty(info.GitCommit, s.Value)
		case "vcs.time":
			info.BuildTime = firstNonEmpty(info.BuildTime, s.Value)
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

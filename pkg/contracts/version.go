package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the current version of the analyzer
	Version = "0.1.0-alpha.1"

	// VersionStage represents the current release stage
	VersionStage = "alpha"

	// DataFormatVersion is the version of the analysis report format
	DataFormatVersion = "v1"

	// APIVersion is the version of the HTTP API
	APIVersion = "v1"
)

// Set during build using ldflags
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

// VersionInfo contains detailed version information
type VersionInfo struct {
	Version      string `json:"version"`
	Stage        string `json:"stage"`
	BuildTime    string `json:"build_time"`
	GitCommit    string `json:"git_commit"`
	GitBranch    string `json:"git_branch"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
	DataFormat   string `json:"data_format"`
	APIVersion   string `json:"api_version"`
}

// GetVersionInfo returns detailed version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:      Version,
		Stage:        VersionStage,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		GitBranch:    GitBranch,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		DataFormat:   DataFormatVersion,
		APIVersion:   APIVersion,
	}
}

// GetFullVersionString returns a one-line version banner for the CLI
func GetFullVersionString() string {
	info := GetVersionInfo()
	return fmt.Sprintf("TSQuality Data Quality Analyzer v%s (report format %s, built: %s, commit: %s, go: %s, %s/%s)",
		info.Version, info.DataFormat, info.BuildTime, info.GitCommit,
		info.GoVersion, info.OS, info.Architecture)
}

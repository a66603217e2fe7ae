package utils

import (
	"runtime/debug"
	"strings"
)

const (
	unknownVersion     = "unknown"
	develVersion       = "(devel)"
	revisionSettingKey = "vcs.revision"
	modifiedSettingKey = "vcs.modified"
	shortRevisionWidth = 12
	dirtySuffix        = "-dirty"
)

// Version is set at link time with -ldflags "-X github.com/temirov/codesnap/internal/utils.Version=v1.2.3".
var Version = ""

// GetApplicationVersion determines the application version.
// The link-time Version wins, then the module version recorded in the build info,
// then the VCS revision stamped by the Go toolchain.
func GetApplicationVersion() string {
	if trimmed := strings.TrimSpace(Version); trimmed != "" {
		return trimmed
	}
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if !buildInfoAvailable {
		return unknownVersion
	}
	if buildInfo.Main.Version != "" && buildInfo.Main.Version != develVersion {
		return buildInfo.Main.Version
	}
	return revisionVersion(buildInfo.Settings)
}

// revisionVersion formats the VCS settings of a development build.
func revisionVersion(settings []debug.BuildSetting) string {
	var revision string
	var modified bool
	for _, setting := range settings {
		switch setting.Key {
		case revisionSettingKey:
			revision = setting.Value
		case modifiedSettingKey:
			modified = setting.Value == "true"
		}
	}
	if revision == "" {
		return unknownVersion
	}
	if len(revision) > shortRevisionWidth {
		revision = revision[:shortRevisionWidth]
	}
	if modified {
		revision += dirtySuffix
	}
	return revision
}

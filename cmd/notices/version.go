package main

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version information set at build time via ldflags.
var (
	version = ""
	commit  = ""
	date    = ""
)

// buildInfo describes the running binary.
type buildInfo struct {
	Version   string
	Commit    string
	Date      string
	GoVersion string
}

// readBuildInfo resolves the build information of the running binary.
func readBuildInfo() buildInfo {
	info, _ := debug.ReadBuildInfo()
	return resolveBuildInfo(info)
}

// resolveBuildInfo fills each field from ldflags first, then from the
// module and VCS data recorded by the toolchain. info may be nil.
func resolveBuildInfo(info *debug.BuildInfo) buildInfo {
	b := buildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	settings := map[string]string{}
	if info != nil {
		b.GoVersion = info.GoVersion
		if b.Version == "" {
			b.Version = info.Main.Version
		}
		for _, s := range info.Settings {
			settings[s.Key] = s.Value
		}
	}

	if b.Version == "" {
		b.Version = "(devel)"
	}
	if b.Commit == "" {
		b.Commit = shortRevision(settings["vcs.revision"])
	}
	if b.Commit == "" {
		b.Commit = "unknown"
	}
	if b.Date == "" {
		b.Date = settings["vcs.time"]
	}
	if b.Date == "" {
		b.Date = "unknown"
	}
	if settings["vcs.modified"] == "true" && b.Commit != "unknown" {
		b.Commit += "-dirty"
	}
	if b.GoVersion == "" {
		b.GoVersion = "unknown"
	}
	return b
}

// shortRevision abbreviates a VCS revision to seven characters.
func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// getVersion returns the version string shown by --version.
func getVersion() string {
	return readBuildInfo().Version
}

// writeTo prints the build information, or only the version when short.
func (b buildInfo) writeTo(w io.Writer, short bool) {
	if short {
		fmt.Fprintln(w, b.Version)
		return
	}
	fmt.Fprintf(w, "notices version %s\n", b.Version)
	fmt.Fprintf(w, "  commit: %s\n", b.Commit)
	fmt.Fprintf(w, "  built:  %s\n", b.Date)
	fmt.Fprintf(w, "  go:     %s\n", b.GoVersion)
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, build date and Go version of notices.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			readBuildInfo().writeTo(cmd.OutOrStdout(), short)
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print only the version")

	return cmd
}

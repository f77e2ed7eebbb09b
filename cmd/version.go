package cmd

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print xplain version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, meta := resolveVersion(rootCmd.Version)
		if versionShort {
			fmt.Println(v)
			return nil
		}
		if meta != "" {
			fmt.Printf("xplain %s (%s)\n", v, meta)
		} else {
			fmt.Printf("xplain %s\n", v)
		}
		return nil
	},
}

// resolveVersion prefers the version baked in at build time, falling
// back to the module version reported by the Go runtime, and appends
// VCS build metadata when available.
func resolveVersion(version string) (string, string) {
	v := strings.TrimSpace(version)
	if v == "" {
		v = "dev"
	}

	var commit, buildTime string
	var dirty bool
	if info, ok := debug.ReadBuildInfo(); ok {
		if (v == "dev" || v == "(devel)") &&
			info.Main.Version != "" &&
			info.Main.Version != "(devel)" &&
			!strings.HasPrefix(info.Main.Version, "v0.0.0-") {
			v = info.Main.Version
		}
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				commit = setting.Value
			case "vcs.time":
				buildTime = setting.Value
			case "vcs.modified":
				dirty = setting.Value == "true"
			}
		}
	}

	var details []string
	if commit != "" {
		short := commit
		if len(short) > 12 {
			short = short[:12]
		}
		if dirty {
			short += "*"
			dirty = false
		}
		details = append(details, fmt.Sprintf("commit %s", short))
	}
	if buildTime != "" {
		details = append(details, fmt.Sprintf("built %s", buildTime))
	}
	if dirty {
		details = append(details, "modified workspace")
	}

	return v, strings.Join(details, ", ")
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version number")
}

package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version overrides the module version embedded by the Go toolchain:
//
//	go build -ldflags "-X 'github.com/ginjaninja78/sales-ledger/cmd.Version=1.2.0'"
var Version = ""

// buildInfo is what "ventas version" reports about the running binary.
type buildInfo struct {
	Version   string
	Revision  string
	Modified  bool
	GoVersion string
}

// readBuildInfo combines the ldflags version with the module and VCS data the
// toolchain embeds. Fields it cannot find are left as "unknown".
func readBuildInfo() buildInfo {
	info := buildInfo{Version: Version, Revision: "unknown", GoVersion: "unknown"}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		if info.Version == "" {
			info.Version = "unknown"
		}
		return info
	}

	info.GoVersion = bi.GoVersion
	if info.Version == "" {
		info.Version = bi.Main.Version
	}
	if info.Version == "" {
		info.Version = "(devel)"
	}

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
			if len(info.Revision) > 12 {
				info.Revision = info.Revision[:12]
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

func (b buildInfo) String() string {
	rev := b.Revision
	if b.Modified {
		rev += "-dirty"
	}
	return fmt.Sprintf("ventas %s (rev %s, %s)", b.Version, rev, b.GoVersion)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of ventas",
	Args:  cobra.NoArgs,

	// Needs no config file or workbook.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },

	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), readBuildInfo())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

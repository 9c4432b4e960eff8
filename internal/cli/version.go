package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/docpatch/internal/version"
)

var versionPlain bool

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Show build version, commit and platform (v)",
	Example: `  docpatch version
  docpatch version --plain   # key: value lines for scripts`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()
		fields := []struct{ key, value string }{
			{"commit", info.Commit},
			{"built", info.BuildDate},
			{"go", info.GoVersion},
			{"platform", info.Platform},
		}
		if info.Modified {
			fields = append(fields, struct{ key, value string }{"modified", "true"})
		}

		out := cmd.OutOrStdout()
		if versionPlain {
			fmt.Fprintf(out, "docpatch %s\n", info.Version)
			for _, f := range fields {
				fmt.Fprintf(out, "%s: %s\n", f.key, f.value)
			}
			return
		}

		title := color.New(color.FgCyan, color.Bold).Sprint("docpatch")
		fmt.Fprintf(out, "%s %s\n", title, info.Version)
		label := color.New(color.FgYellow).SprintfFunc()
		for _, f := range fields {
			value := f.value
			if f.key == "commit" {
				value = info.ShortCommit()
			}
			fmt.Fprintf(out, "  %s  %s\n", label("%-9s", f.key), value)
		}
	},
}

func init() {
	versionCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionPlain, "plain", false, "Plain key: value output")
}

package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var InstalledCmd = &cobra.Command{
	Use:   "installed",
	Short: "List installed modules and their owned files",
	Long: `List every installed module along with its version and the files
it owns.

Examples:
  modreg-inspect installed --registry registry.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry(cmd)
		if err != nil {
			return err
		}

		ids := reg.InstalledIdentifiers()
		sort.Strings(ids)

		for _, id := range ids {
			im := reg.Installed(id)
			if im == nil {
				continue
			}
			fmt.Printf("%s %s%s\n", id, im.Metadata().Version, autoSuffix(im.AutoInstalled()))
			for _, f := range im.Files() {
				fmt.Printf("  %s\n", f)
			}
		}
		return nil
	},
}

func autoSuffix(auto bool) string {
	if auto {
		return " (auto)"
	}
	return ""
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var AvailableCmd = &cobra.Command{
	Use:   "available [identifier]",
	Short: "List available module versions",
	Long: `List every known version of a module in the available catalog.

Examples:
  modreg-inspect available --registry registry.json some-mod`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry(cmd)
		if err != nil {
			return err
		}

		versions := reg.AvailableByIdentifier(args[0])
		if len(versions) == 0 {
			fmt.Printf("%s: no available versions\n", args[0])
			return nil
		}

		for _, m := range versions {
			fmt.Printf("%s %s (game %s-%s)\n", m.Identifier, m.Version, m.MinGame, m.MaxGame)
		}
		return nil
	},
}

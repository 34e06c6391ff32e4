package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var WhyRemoveCmd = &cobra.Command{
	Use:   "why-remove <identifier>...",
	Short: "Show what would break if the given modules were removed",
	Long: `Compute the transitive closure of installed modules that would
become unsatisfied if every given identifier were uninstalled.

Examples:
  modreg-inspect why-remove --registry registry.json some-mod`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry(cmd)
		if err != nil {
			return err
		}

		remove := make(map[string]struct{}, len(args))
		for _, id := range args {
			remove[id] = struct{}{}
		}

		var broken []string
		for id := range reg.FindReverseDependencies(remove) {
			if _, given := remove[id]; given {
				continue
			}
			broken = append(broken, id)
		}

		if len(broken) == 0 {
			fmt.Println("nothing else would break")
			return nil
		}
		for _, id := range broken {
			fmt.Println(id)
		}
		return nil
	},
}

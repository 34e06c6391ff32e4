package commands

import (
	"fmt"
	"sort"

	"github.com/alexinslc/modreg/internal/registry"
	"github.com/spf13/cobra"
)

var CompatibleCmd = &cobra.Command{
	Use:   "compatible",
	Short: "Partition the catalog by game-version compatibility",
	Long: `Show which available modules are compatible, and which are
incompatible, with one or more game versions.

Examples:
  modreg-inspect compatible --registry registry.json --game-version 1.12.2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry(cmd)
		if err != nil {
			return err
		}

		raw, err := cmd.Flags().GetStringSlice("game-version")
		if err != nil {
			return err
		}

		var versions []registry.GameVersion
		for _, s := range raw {
			v, err := registry.NewGameVersion(s)
			if err != nil {
				return fmt.Errorf("invalid --game-version %q: %w", s, err)
			}
			versions = append(versions, v)
		}
		criteria := registry.NewGameVersionCriteria(versions...)

		compatible := reg.CompatibleModules(criteria)
		incompatible := reg.IncompatibleModules(criteria)

		fmt.Printf("Compatible (%d):\n", len(compatible))
		printModuleMap(compatible)
		fmt.Printf("\nIncompatible (%d):\n", len(incompatible))
		printModuleMap(incompatible)
		return nil
	},
}

func printModuleMap(modules map[string]*registry.CkanModule) {
	ids := make([]string, 0, len(modules))
	for id := range modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		m := modules[id]
		fmt.Printf("  %s %s\n", m.Identifier, m.Version)
	}
}

func init() {
	CompatibleCmd.Flags().StringSlice("game-version", nil, "game version to check compatibility against (repeatable)")
}

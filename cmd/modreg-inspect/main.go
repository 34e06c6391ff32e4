package main

import (
	"fmt"
	"os"

	"github.com/alexinslc/modreg/cmd/modreg-inspect/commands"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "modreg-inspect",
	Short: "Inspect a mod registry blob",
	Long: `modreg-inspect loads a persisted registry blob and drives its
read-only query surface from the command line.

This is a debug and demo harness over the registry library, not a
package manager — it does not fetch repositories, resolve dependencies,
or install anything.

Examples:
  modreg-inspect available --registry registry.json some-mod
  modreg-inspect compatible --registry registry.json --game-version 1.12.2
  modreg-inspect installed --registry registry.json
  modreg-inspect sanity --registry registry.json
  modreg-inspect why-remove --registry registry.json some-mod
  modreg-inspect repositories --registry registry.json`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().String("registry", "", "path to a registry blob (JSON)")
	rootCmd.PersistentFlags().String("game-root", "", "game installation root, for migrating legacy blobs")
	rootCmd.MarkPersistentFlagRequired("registry")

	rootCmd.AddCommand(commands.AvailableCmd)
	rootCmd.AddCommand(commands.CompatibleCmd)
	rootCmd.AddCommand(commands.InstalledCmd)
	rootCmd.AddCommand(commands.SanityCmd)
	rootCmd.AddCommand(commands.WhyRemoveCmd)
	rootCmd.AddCommand(commands.RepositoriesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

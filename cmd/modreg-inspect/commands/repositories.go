package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var RepositoriesCmd = &cobra.Command{
	Use:   "repositories",
	Short: "List known repositories, or export them as YAML",
	Long: `List every repository the registry knows about, sorted by name.

Examples:
  modreg-inspect repositories --registry registry.json
  modreg-inspect repositories --registry registry.json --export repos.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry(cmd)
		if err != nil {
			return err
		}

		exportPath, err := cmd.Flags().GetString("export")
		if err != nil {
			return err
		}
		if exportPath != "" {
			doc, err := reg.ExportRepositoriesYAML()
			if err != nil {
				return fmt.Errorf("export repositories: %w", err)
			}
			return os.WriteFile(exportPath, doc, 0o644)
		}

		for _, repo := range reg.Repositories() {
			fmt.Printf("%s %s\n", repo.Name, repo.URL)
		}
		return nil
	},
}

func init() {
	RepositoriesCmd.Flags().String("export", "", "write the repository list as YAML to this path instead of printing it")
}

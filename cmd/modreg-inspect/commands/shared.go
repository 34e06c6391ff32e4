package commands

import (
	"fmt"
	"os"

	"github.com/alexinslc/modreg/internal/registry"
	"github.com/spf13/cobra"
)

// loadRegistry reads and parses the blob named by the --registry flag,
// migrating it against --game-root if it's an older schema.
func loadRegistry(cmd *cobra.Command) (*registry.Registry, error) {
	path, err := cmd.Flags().GetString("registry")
	if err != nil {
		return nil, err
	}
	gameRoot, err := cmd.Flags().GetString("game-root")
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry blob: %w", err)
	}

	return registry.Unmarshal(data, gameRoot)
}

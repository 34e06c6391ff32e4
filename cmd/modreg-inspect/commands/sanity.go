package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var SanityCmd = &cobra.Command{
	Use:   "sanity",
	Short: "Check whether every installed module's dependencies are satisfied",
	Long: `Report every installed module whose depends cannot currently be
satisfied by the universe of installed modules, loose binaries, and
detected DLC.

Exits non-zero if any are found.

Examples:
  modreg-inspect sanity --registry registry.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry(cmd)
		if err != nil {
			return err
		}

		errs := reg.GetSanityErrors()
		if len(errs) == 0 {
			fmt.Println("sane")
			return nil
		}

		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return fmt.Errorf("%d module(s) failed sanity check", len(errs))
	},
}

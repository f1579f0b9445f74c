package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/zenledger/internal/journal"
	"github.com/cleared-dev/zenledger/internal/model"
)

func newExtractCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "extract <file>...",
		Short: "Print the ledger entries extracted from export files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadProject()
			if err != nil {
				return err
			}

			var txns []model.Transaction
			for _, path := range args {
				imp, err := p.identify(path)
				if err != nil {
					return err
				}
				ext, err := imp.Extract(path)
				if err != nil {
					return fmt.Errorf("extracting %s: %w", path, err)
				}
				txns = append(txns, ext.Transactions...)
			}

			for _, ve := range journal.Validate(txns) {
				a.log.Warn().Str("rule", ve.Rule).Int("line", ve.Line).Msg(ve.Description)
			}
			journal.Sort(txns)

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating output: %w", err)
				}
				defer f.Close()
				w = f
			}
			if err := journal.Write(w, txns); err != nil {
				return fmt.Errorf("writing ledger: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write entries to this file instead of stdout")

	return cmd
}

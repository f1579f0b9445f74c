package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/zenledger/internal/importer"
)

func newArchiveCommand(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "archive <file>...",
		Short: "Move export files into the documents tree",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadProject()
			if err != nil {
				return err
			}
			docs := p.path(p.cfg.Paths.Documents)

			for _, path := range args {
				imp, err := p.identify(path)
				if err != nil {
					return err
				}
				dst, err := importer.Archive(imp, path, docs, dryRun)
				if err != nil {
					return err
				}
				fprintf(cmd, "%s -> %s\n", path, dst)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print destinations without moving files")

	return cmd
}

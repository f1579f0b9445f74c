package commands

import (
	"github.com/spf13/cobra"
)

func newIdentifyCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "identify <file>...",
		Short: "Report which importer recognizes each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadProject()
			if err != nil {
				return err
			}
			for _, path := range args {
				imp := p.registry.Identify(path)
				if imp == nil {
					fprintf(cmd, "%s\t-\n", path)
					continue
				}
				fprintf(cmd, "%s\t%s\t%s\n", path, imp.Name(), imp.Account(path))
			}
			return nil
		},
	}
}

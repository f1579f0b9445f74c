package commands

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cleared-dev/zenledger/internal/buildinfo"
	"github.com/cleared-dev/zenledger/internal/config"
	"github.com/cleared-dev/zenledger/internal/logger"
)

const envPrefix = "ZENLEDGER"

// app carries state shared by every subcommand of one invocation.
type app struct {
	v   *viper.Viper
	log zerolog.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New(), log: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:     "zenledger",
		Short:   "Import ZenMoney exports into a plain-text ledger",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log, err := logger.New(cmd.ErrOrStderr(), a.v.GetString("log.level"), a.v.GetString("log.format"))
			if err != nil {
				return err
			}
			a.log = log
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", config.FileName, "path to zenledger.yaml")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", logger.FormatConsole, "log format (console, json)")

	_ = a.v.BindPFlag("config", flags.Lookup("config"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", flags.Lookup("log-format"))

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	rootCmd.AddCommand(
		newInitCommand(a),
		newIdentifyCommand(a),
		newExtractCommand(a),
		newArchiveCommand(a),
		newImportCommand(a),
	)

	return rootCmd
}

func fprintf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

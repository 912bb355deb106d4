package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/photowall/pkg/config"
	perrors "github.com/matzehuels/photowall/pkg/errors"
)

// configCommand creates the config inspection command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configShowCommand())

	return cmd
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				p, err := config.Path()
				if err != nil {
					return err
				}
				path = p
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with the access key masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.settings()
			if err != nil {
				return err
			}
			out := newPrinter(cmd.OutOrStdout())
			out.field("file", cfg.FilePath())
			out.field("key", cfg.MaskedKey()+" ("+cfg.KeySource()+")")
			if err := cfg.Validate(); err != nil {
				out.warning("%s", perrors.UserMessage(err))
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return cfg.WriteTOML(cmd.OutOrStdout())
		},
	}
}

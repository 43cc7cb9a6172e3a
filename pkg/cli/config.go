package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/harvestboard/pkg/config"
)

func configCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change saved settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			if err := cfg.Validate(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set [key] [value]",
		Short: "Save a setting",
		Long: `Save a setting to the config file.

Keys: backend, source_url, write_base_url, oauth, spreadsheet_id, sheet_name, key_column`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.configPath
			if path == "" {
				var err error
				if path, err = config.GetConfigPath(); err != nil {
					return err
				}
			}
			cfg, err := config.LoadFile(path)
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := config.SaveFile(path, cfg); err != nil {
				return fmt.Errorf("error saving config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s set to: %s\n", args[0], args[1])
			return nil
		},
	})

	return cmd
}

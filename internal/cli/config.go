package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/docpatch/internal/config"
	clierrors "github.com/ariel-frischer/docpatch/internal/errors"
	"github.com/ariel-frischer/docpatch/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage docpatch configuration",
	Long: `Manage docpatch configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (DOCPATCH_*, nested keys use __)
  2. Project config (.docpatch/config.yml or .docpatch/config.json)
  3. User config (~/.config/docpatch/config.yml)
  4. Built-in defaults

A .env file in the working directory is read first; it never overrides
variables that are already set.`,
	Example: `  # Show the effective configuration
  docpatch config show

  # Create .docpatch/config.yml with every option documented
  docpatch config init

  # Set a value in the project config
  docpatch config set github.repo acme/widgets`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Print the configuration after merging defaults, config files and the environment. Tokens are masked.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		redacted := cfg.Redacted()
		data, err := yaml.Marshal(&redacted)
		if err != nil {
			return fmt.Errorf("encoding configuration: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented config file",
	Long: `Write a config file containing every option with its default and a short
description. The project file is written unless --user is given. An existing
file is left unchanged unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetBool("user")
		force, _ := cmd.Flags().GetBool("force")

		path, err := configTargetPath(user)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if _, err := os.Stat(path); err == nil && !force {
			output.PrintSkipped(out, fmt.Sprintf("%s already exists (use --force to overwrite)", path))
			return nil
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return clierrors.FileNotWritable(path, err)
		}
		if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
			return clierrors.FileNotWritable(path, err)
		}
		output.PrintSuccess(out, "Created "+path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long:  `Validate value against the key's type and write it to the project config (or the user config with --user). Run 'docpatch config keys' for the list of keys.`,
	Example: `  docpatch config set min_significance high
  docpatch config set github.timeout 1m --user`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetBool("user")
		path, err := configTargetPath(user)
		if err != nil {
			return err
		}
		if err := config.SetConfigValue(path, args[0], args[1]); err != nil {
			return clierrors.Wrap(err, clierrors.Argument, "",
				"Run 'docpatch config keys' to list valid keys and types")
		}
		output.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Set %s = %s in %s", args[0], args[1], path))
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List configuration keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tTYPE\tDEFAULT\tDESCRIPTION")
		for _, key := range config.SortedKeys() {
			k := config.KnownKeys[key]
			fmt.Fprintf(tw, "%s\t%s\t%v\t%s\n", key, k.TypeLabel(), k.Default, k.Help)
		}
		return tw.Flush()
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config file locations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		userPath, err := config.UserConfigPath()
		if err != nil {
			userPath = "(unavailable: " + err.Error() + ")"
		}
		fmt.Fprintf(out, "user:    %s\n", userPath)
		fmt.Fprintf(out, "project: %s\n", projectConfigPath())
		return nil
	},
}

func init() {
	configCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configInitCmd, configSetCmd, configKeysCmd, configPathCmd)

	configInitCmd.Flags().Bool("user", false, "Write the user config instead of the project config")
	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")
	configSetCmd.Flags().Bool("user", false, "Write to the user config instead of the project config")
}

// projectConfigPath honours --config for the project file.
func projectConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.ProjectConfigPath()
}

func configTargetPath(user bool) (string, error) {
	if !user {
		return projectConfigPath(), nil
	}
	path, err := config.UserConfigPath()
	if err != nil {
		return "", clierrors.Wrap(err, clierrors.Configuration, "cannot locate the user config directory")
	}
	return path, nil
}

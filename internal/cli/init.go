package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ddqcheck/internal/config"
)

func newInitCommand(opts *rootOptions) *cobra.Command {
	var (
		dir       string
		gitignore bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold .ddqcheck/config.yml",
		Long: `Write a commented default config to <dir>/.ddqcheck/config.yml. When <dir> is a git
checkout, the report folder and run history are added to .gitignore.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(_ *cobra.Command, _ []string) error {
			root := strings.TrimSpace(dir)
			if root == "" {
				wd, err := getwd()
				if err != nil {
					return fmt.Errorf("init: %w", err)
				}
				root = wd
			}
			root, err := filepath.Abs(root)
			if err != nil {
				return fmt.Errorf("init: %w", err)
			}
			path := config.ConfigPath(root)
			if strings.TrimSpace(opts.configPath) != "" {
				if path, err = filepath.Abs(opts.configPath); err != nil {
					return fmt.Errorf("init: %w", err)
				}
				root = config.RepoRootFromConfigPath(path)
			}
			if err := config.Scaffold(path); err != nil {
				return fmt.Errorf("init: %w", err)
			}
			fmt.Fprintf(opts.stdout, "Wrote %s\n", path)

			if !gitignore || !isGitCheckout(root) {
				return nil
			}
			for _, entry := range []string{config.DefaultOutputDir, config.DefaultStorePath} {
				updated, err := addGitignoreEntry(root, entry)
				if err != nil {
					return fmt.Errorf("init: update .gitignore: %w", err)
				}
				if updated {
					fmt.Fprintf(opts.stdout, "Added %s to %s\n", entry, filepath.Join(root, ".gitignore"))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Project directory (default: current directory)")
	cmd.Flags().BoolVar(&gitignore, "gitignore", true, "Add outputs to .gitignore in git checkouts")
	return cmd
}

// isGitCheckout reports whether root holds a .git directory or file.
func isGitCheckout(root string) bool {
	_, err := os.Stat(filepath.Join(root, ".git"))
	return err == nil
}

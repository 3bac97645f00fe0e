package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ddqcheck/internal/config"
)

func newCheckCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the config file",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(_ *cobra.Command, _ []string) error {
			_, path, err := opts.loadConfig()
			if err != nil {
				var validation *config.ValidationError
				if errors.As(err, &validation) {
					return fmt.Errorf("config %s is invalid:\n%s", path, validation.Error())
				}
				return err
			}
			if path == "" {
				fmt.Fprintln(opts.stdout, "No config file found; using defaults.")
				return nil
			}
			fmt.Fprintf(opts.stdout, "Config OK: %s\n", path)
			return nil
		},
	}
}

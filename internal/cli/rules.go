package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ddqcheck/internal/rules"
)

func newRulesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the rule cascade in evaluation order",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, _, err := opts.loadConfig()
			if err != nil {
				return err
			}
			engine, err := rules.NewEngine(cfg.RuleConfig())
			if err != nil {
				return fmt.Errorf("build rule engine: %w", err)
			}

			w := tabwriter.NewWriter(opts.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tRULE\tDETAIL")
			for i, name := range engine.Rules() {
				if name != "custom" {
					fmt.Fprintf(w, "%d\t%s\t\n", i+1, name)
					continue
				}
				for _, custom := range engine.Config().Custom {
					fmt.Fprintf(w, "%d\tcustom:%s\t%s when %s\n", i+1, custom.Name, custom.Status, custom.Expression)
				}
			}
			return w.Flush()
		},
	}
}

package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ddqcheck/internal/api"
	"ddqcheck/internal/rules"
	"ddqcheck/internal/store"
)

// serveAPI is a test seam for running the HTTP server.
var serveAPI = api.Serve

func newServeCommand(opts *rootOptions) *cobra.Command {
	var (
		addr    string
		origins []string
		dbPath  string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the validation API over HTTP",
		Long: `Serve GET /health and POST /validate. Uploads are redacted before evaluation.
POST /validate takes a multipart "file" (.xlsx or .pdf) and the optional fields
use_llm, llm_model, and max_rows_per_sheet.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(addr) != "" {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("allowed-origins") {
				cfg.Server.AllowedOrigins = origins
			} else if env := strings.TrimSpace(getenv("ALLOWED_ORIGINS")); env != "" {
				cfg.Server.AllowedOrigins = splitOrigins(env)
			}
			if strings.TrimSpace(dbPath) != "" {
				cfg.Store.Path = dbPath
			}

			logger, err := opts.newLogger(cfg.Logging)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			engine, err := rules.NewEngine(cfg.RuleConfig())
			if err != nil {
				return fmt.Errorf("build rule engine: %w", err)
			}
			factory, err := openRefinerFactory(ctx, cfg.LLM, logger, opts.stderr)
			if err != nil {
				return err
			}
			defer func() { _ = factory.Close() }()

			handlerCfg := api.Config{
				Engine:         engine,
				Columns:        cfg.ExtractOptions().Columns,
				Workers:        cfg.Evaluate.Workers,
				Refiner:        factory.build,
				AllowedOrigins: cfg.Server.AllowedOrigins,
				MaxUploadBytes: int64(cfg.Server.MaxUploadMB) << 20,
				Logger:         logger,
			}
			if cfg.Store.Path != "" {
				db, err := store.Open(ctx, cfg.Store.Path)
				if err != nil {
					return fmt.Errorf("open run history: %w", err)
				}
				defer db.Close()
				handlerCfg.Recorder = db
			}

			err = serveAPI(ctx, api.ServerConfig{
				Addr:    cfg.Server.Addr,
				Handler: api.NewHandler(handlerCfg),
				Ready: func(bound string) {
					fmt.Fprintf(opts.stdout, "Serving ddqcheck API at http://%s\n", bound)
					logger.Info("api listening", zap.String("addr", bound))
				},
			})
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Address to listen on (default from config: 127.0.0.1:8000)")
	cmd.Flags().StringSliceVar(&origins, "allowed-origins", nil, "CORS origins, comma separated (default from config: *)")
	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB run history file (default from config)")
	return cmd
}

// splitOrigins parses a comma separated origin list.
func splitOrigins(value string) []string {
	var out []string
	for _, origin := range strings.Split(value, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}

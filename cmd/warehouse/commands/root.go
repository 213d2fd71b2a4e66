package commands

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"warehouse/internal/app"
	"warehouse/internal/logging"
)

// env is the state shared by the root command and its subcommands.
type env struct {
	v    *viper.Viper
	cfg  app.Config
	log  *zap.Logger
	wire *app.Wire
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds a fresh command tree with its own viper instance.
func NewRootCmd() *cobra.Command {
	e := &env{v: viper.New()}

	root := &cobra.Command{
		Use:          "warehouse",
		Short:        "Create, label and query warehouse IMEI clusters",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Load(e.v)
			if err != nil {
				return err
			}
			logger, err := logging.New(logging.Console, cfg.Debug)
			if err != nil {
				return err
			}
			w, err := app.NewWire(cfg, logger)
			if err != nil {
				return err
			}
			e.cfg, e.log, e.wire = cfg, logger, w
			logger.Debug("config loaded",
				zap.String("api_url", cfg.APIURL),
				zap.String("qr_url", cfg.QRURL),
				zap.String("home", cfg.Home),
				zap.Duration("timeout", cfg.Timeout),
				zap.Bool("journal_sealed", cfg.Passphrase != ""))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.log != nil {
				_ = e.log.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.String("api-url", "", "cluster API base URL (default "+app.DefaultAPIURL+")")
	pf.String("qr-url", "", "QR endpoint base URL (default: --api-url)")
	pf.String("home", "", "config and journal dir (default ~/.warehouse)")
	pf.Duration("timeout", 0, "per-request timeout (default 15s)")
	pf.Bool("debug", false, "debug logging")
	pf.StringP("passphrase", "p", "", "passphrase to encrypt the local journal")

	for key, flag := range map[string]string{
		app.KeyAPIURL:     "api-url",
		app.KeyQRURL:      "qr-url",
		app.KeyHome:       "home",
		app.KeyTimeout:    "timeout",
		app.KeyDebug:      "debug",
		app.KeyPassphrase: "passphrase",
	} {
		_ = e.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		validateCmd(e),
		createCmd(e),
		qrCmd(e),
		importCmd(e),
		queryCmd(e),
		historyCmd(e),
	)
	return root
}

func (e *env) ctx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

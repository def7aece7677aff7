package fabexplorer

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hedisam/fabexplorer/internal/config"
)

type GlobalFlags struct {
	ConfigFile string
	EnvFile    string
	Verbose    bool
}

var (
	globalFlags GlobalFlags
	v           = viper.New()
	cfg         *config.Config
	logger      *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fabexplorer",
	Short: "Explore the blocks and transactions of a Hyperledger Fabric channel",
	Long: `fabexplorer reads a Fabric channel's ledger through the query system chaincode
on behalf of one of the configured organizations. It can serve the ledger over
HTTP, export it as JSON lines, or follow new blocks as they are committed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(v, globalFlags.ConfigFile, globalFlags.EnvFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger, err = config.NewLogger(cfg.Log, globalFlags.Verbose)
		if err != nil {
			return err
		}

		logger.WithFields(logrus.Fields{
			"channel": cfg.Fabric.Channel,
			"orgs":    cfg.Fabric.Orgs,
			"cache":   cfg.Cache.Mode,
		}).Debug("Loaded configuration")
		return nil
	},
}

// Execute runs the command line.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globalFlags.ConfigFile, "config", "", "Path to a YAML config file")
	flags.StringVar(&globalFlags.EnvFile, "env-file", ".env", "Path to a .env file, ignored if missing")
	flags.BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "Verbose output")

	flags.String("channel", "", "Channel to explore")
	flags.Int("concurrency", 0, "Maximum number of blocks fetched at once")
	flags.String("cache", "", "Block cache: none, memory or redis")
	mustBindPFlag(flags, "fabric.channel", "channel")
	mustBindPFlag(flags, "explorer.concurrency", "concurrency")
	mustBindPFlag(flags, "cache.mode", "cache")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(followCmd)
}

func mustBindPFlag(flags *pflag.FlagSet, key, name string) {
	if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", name, err))
	}
}

// resolveOrg returns org, or the default organization when it is empty.
func resolveOrg(org string) (string, error) {
	if org == "" {
		return cfg.Fabric.DefaultOrg, nil
	}
	for _, known := range cfg.Fabric.Orgs {
		if known == org {
			return org, nil
		}
	}
	return "", fmt.Errorf("invalid organization %q, must be one of %v", org, cfg.Fabric.Orgs)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/groupmatch/internal/config"
	logpkg "github.com/kailas-cloud/groupmatch/internal/logger"
	"github.com/kailas-cloud/groupmatch/internal/version"
)

type rootFlags struct {
	env        string
	configFile string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "groupmatch",
		Short:         "Conversational recommender for local interest groups",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.env, "env", "", "environment name (default: $ENV or local)")
	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default: config/<env>.yaml)")

	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newSearchCmd(flags))
	root.AddCommand(newChatCmd(flags))
	root.AddCommand(newVersionCmd())

	return root
}

// load reads credential files, configuration and creates the logger.
func (f *rootFlags) load() (config.Config, *zap.Logger, string, error) {
	if err := config.LoadDotEnv(".env.local", ".env"); err != nil {
		return config.Config{}, nil, "", fmt.Errorf("load env files: %w", err)
	}

	env := f.env
	if env == "" {
		env = config.GetEnv()
	}

	var (
		cfg config.Config
		err error
	)
	if f.configFile != "" {
		cfg, err = config.LoadFile(f.configFile)
	} else {
		cfg, err = config.Load(env)
	}
	if err != nil {
		return config.Config{}, nil, "", fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return config.Config{}, nil, "", fmt.Errorf("create logger: %w", err)
	}
	return cfg, logger, env, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "groupmatch %s (commit %s, built %s)\n",
				version.Version, version.Commit, version.Date)
			return nil
		},
	}
}

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/abczzz13/realip/internal/config"
	"github.com/abczzz13/realip/internal/logging"
	"github.com/abczzz13/realip/internal/server"
)

// NewServeCommand builds the HTTP server command.
func NewServeCommand() *cobra.Command {
	var listen string
	var peerFallback bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the client address echo server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("listen") {
				cfg.Server.Listen = listen
			}
			if cmd.Flags().Changed("peer-fallback") {
				cfg.Resolver.PeerFallback = peerFallback
			}

			logger := logging.New(os.Stdout, cfg.Logging)
			srv, err := server.New(cfg, logger)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&listen, "listen", config.DefaultListen, "listen address for the HTTP server")
	flags.BoolVar(&peerFallback, "peer-fallback", false, "use the connection peer address when no header matches")

	return cmd
}

package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alejandrogzi/gofq/internal/api"
	"github.com/alejandrogzi/gofq/internal/config"
)

var (
	serverHost string
	serverPort int
)

// NewServerCmd creates the server command
func NewServerCmd() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP API for accession resolution",
		Long: `Serve metadata lookup and downloadability probes over HTTP.

Endpoints:
  GET /api/v1/runs/{accession}   resolved run records
  GET /api/v1/probe/{accession}  DOWNLOADABLE or NOT_FOUND
  GET /api/v1/health             liveness check`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd, flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&serverHost, "host", "", "Host to bind to")
	cmd.Flags().IntVar(&serverPort, "port", 0, "Port to listen on")
	return cmd
}

func runServer(cmd *cobra.Command, flags *runFlags) error {
	cfg, err := flags.resolveConfig(cmd)
	if err != nil {
		return err
	}

	host := cfg.Server.Host
	if cmd.Flags().Changed("host") {
		host = serverHost
	}
	port := cfg.Server.Port
	if cmd.Flags().Changed("port") {
		port = serverPort
	}

	server := api.NewServer(&api.Config{
		Host:        host,
		Port:        port,
		ENABaseURL:  cfg.ENABaseURL,
		MaxAttempts: cfg.MaxAttempts,
		RetryDelay:  time.Duration(cfg.SleepSeconds) * time.Second,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	}
}

// NewConfigCmd creates the config command
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage gofq configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.GetConfigPath()
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			cmd.Printf("Wrote %s\n", path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(config.GetConfigPath())
		},
	})

	return cmd
}

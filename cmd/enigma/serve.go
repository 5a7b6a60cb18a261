package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/enigma/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves stateless encryption and named sessions as a JSON API over HTTP.
Key sheets live in memory unless --redis is given, in which case replicas share them,
or --store-dir is given, in which case they survive restarts as YAML files.
With --seal-key every stored key sheet is encrypted at rest.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := serveOptions(cmd)
		opts.Port, _ = cmd.Flags().GetString("port")
		opts.AuthSecret, _ = cmd.Flags().GetString("auth-secret")

		srv, backend, err := cli.NewHTTPServer(opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing enigma: %v\n", err)
			os.Exit(1)
		}
		defer backend.Close()

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			backend.Logger.Info("Starting Enigma Server", "address", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				backend.Logger.Error("Server error", "err", err)
				os.Exit(1)
			}

		case sig := <-shutdown:
			backend.Logger.Info("Start shutdown", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				backend.Logger.Warn("Graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				if err := srv.Close(); err != nil {
					backend.Logger.Error("Error killing server", "err", err)
				}
			}
			backend.Logger.Info("Enigma Server stopped gracefully")
		}
	},
}

// addBackendFlags registers the session store and logging flags shared by serve and mcp.
func addBackendFlags(cmd *cobra.Command) {
	cmd.Flags().String("redis", "", "Redis address for shared key sheets (default: in memory)")
	cmd.Flags().String("redis-password", "", "Redis password")
	cmd.Flags().Int("redis-db", 0, "Redis database number")
	cmd.Flags().String("redis-prefix", "", "Key prefix for key sheets and locks in Redis")
	cmd.Flags().Duration("session-ttl", 0, "Expire idle key sheets after this long (Redis only, 0 keeps them)")
	cmd.Flags().String("store-dir", "", "Directory for key sheet files (ignored with --redis)")
	cmd.Flags().String("sqlite", "", "SQLite database for key sheets (builds with -tags sqlite)")
	cmd.Flags().String("seal-key", os.Getenv("ENIGMA_SEAL_KEY"), "Hex AES-256 key sealing stored key sheets (env ENIGMA_SEAL_KEY)")
	cmd.Flags().String("seal-passphrase", os.Getenv("ENIGMA_SEAL_PASSPHRASE"), "Derive the seal key from a passphrase instead (env ENIGMA_SEAL_PASSPHRASE)")
	cmd.Flags().StringSlice("seal-fallback", nil, "Older hex seal keys still accepted when loading")
	cmd.Flags().String("log-level", "info", "Log level: debug, info, warn or error")
	cmd.Flags().Bool("log-json", false, "Write logs as JSON lines")
}

func serveOptions(cmd *cobra.Command) cli.ServeOptions {
	var opts cli.ServeOptions
	opts.RedisAddr, _ = cmd.Flags().GetString("redis")
	opts.RedisPassword, _ = cmd.Flags().GetString("redis-password")
	opts.RedisDB, _ = cmd.Flags().GetInt("redis-db")
	opts.RedisPrefix, _ = cmd.Flags().GetString("redis-prefix")
	opts.SessionTTL, _ = cmd.Flags().GetDuration("session-ttl")
	opts.StoreDir, _ = cmd.Flags().GetString("store-dir")
	opts.SQLitePath, _ = cmd.Flags().GetString("sqlite")
	opts.SealKey, _ = cmd.Flags().GetString("seal-key")
	opts.SealPassphrase, _ = cmd.Flags().GetString("seal-passphrase")
	opts.SealFallback, _ = cmd.Flags().GetStringSlice("seal-fallback")
	opts.LogLevel, _ = cmd.Flags().GetString("log-level")
	opts.LogJSON, _ = cmd.Flags().GetBool("log-json")
	opts.Tables, _ = cmd.Flags().GetString("tables")
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		opts.LogLevel = "debug"
	}
	return opts
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("auth-secret", os.Getenv("ENIGMA_AUTH_SECRET"), "Require bearer tokens signed with this secret on /sessions (env ENIGMA_AUTH_SECRET)")
	addBackendFlags(serveCmd)
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abhisek/levelcast/internal/api"
	"github.com/abhisek/levelcast/internal/demo"
	"github.com/abhisek/levelcast/internal/logger"
	"github.com/abhisek/levelcast/internal/server"
	"github.com/abhisek/levelcast/internal/source"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve reports over HTTP; each request brings its own API token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}
		log, err := logger.New(cfg.LogMode)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer log.Sync()

		opts, err := sessionOptions(cfg)
		if err != nil {
			return err
		}

		factory := func(token string) (source.Source, error) {
			apiCfg := cfg.API
			apiCfg.Token = token
			client, err := api.New(apiCfg, log)
			if err != nil {
				return nil, err
			}
			return client, nil
		}
		if useDemo, _ := cmd.Flags().GetBool("demo"); useDemo {
			seed, _ := cmd.Flags().GetUint64("seed")
			factory = func(string) (source.Source, error) {
				return demo.New(seed, time.Now()), nil
			}
		}

		if cfg.LogMode != "dev" {
			gin.SetMode(gin.ReleaseMode)
		}
		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           server.New(factory, opts, source.SystemClock{}, log).Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errc := make(chan error, 1)
		go func() {
			log.Info("listening", "addr", cfg.Addr)
			errc <- srv.ListenAndServe()
		}()

		select {
		case err := <-errc:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides LEVELCAST_ADDR)")
}

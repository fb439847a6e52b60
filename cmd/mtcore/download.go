// Copyright (c) 2025 @AmarnathCJD

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/amarnathcjd/mtproto/internal/utils"
	"github.com/amarnathcjd/mtproto/telegram"
)

func downloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download <file id>",
		Short: "Download a file by its file id over the configured session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			output, _ := cmd.Flags().GetString("output")
			if output == "" {
				output = args[0][:min(16, len(args[0]))]
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reg := prometheus.NewRegistry()
			if cfg.MetricsAddr != "" {
				shutdown := serveMetrics(cfg.MetricsAddr, reg)
				defer shutdown()
			}

			client, err := telegram.NewClient(telegram.ClientConfig{Config: cfg, Registerer: reg})
			if err != nil {
				return err
			}
			if err := client.Start(ctx); err != nil {
				return err
			}
			defer client.Stop()

			f, err := os.Create(output)
			if err != nil {
				return errors.Wrap(err, "creating output")
			}
			defer f.Close()

			n, err := client.DownloadMedia(ctx, args[0], f, telegram.DownloadOptions{
				GetFileOptions: telegram.GetFileOptions{Progress: logProgress(client.Log)},
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %d bytes to %s\n", n, output)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "output path")
	return cmd
}

// logProgress logs at most once a second.
func logProgress(log *utils.Logger) telegram.Progress {
	var last time.Time
	return func(current, total int64) error {
		if time.Since(last) < time.Second && current != total {
			return nil
		}
		last = time.Now()
		if total > 0 {
			log.Info("downloaded %d of %d bytes (%.1f%%)", current, total, float64(current)*100/float64(total))
		} else {
			log.Info("downloaded %d bytes", current)
		}
		return nil
	}
}

func serveMetrics(addr string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintln(os.Stderr, "metrics server:", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

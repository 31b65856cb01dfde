package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"patronpipe/internal/common"
	"patronpipe/internal/config"
	"patronpipe/internal/etl"
	"patronpipe/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP upload shell",
		Long: `Serve starts a small HTTP server with an upload form. A POST of the
three input files returns a zip bundle of the output artifacts; a run that
fails validation returns the error report with status 422.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", ":5000", "listen address")
	_ = viper.BindPFlag("serve.addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	rules, err := config.LoadRules()
	if err != nil {
		return common.NewUserError("could not load rule configuration", err)
	}

	pipeline := etl.New(etl.Config{
		TagMapping:       rules.TagMapping,
		NonCompanyValues: rules.NonCompanyValues,
	})

	addr := viper.GetString("serve.addr")
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(pipeline).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		common.LogInfo("Listening", common.Fields{"addr": addr})
		errChan <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			common.LogError(err, "Shutdown failed", common.Fields{"addr": addr})
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	}
}

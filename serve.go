package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nfdi4microbiota/mvs/config"
	"github.com/nfdi4microbiota/mvs/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the metadata validation REST service",
	Long: `Start the REST service, which exposes the term catalog, record validation,
and asynchronous archive submissions on the configured port.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {

	service, err := services.NewValidationService()
	if err != nil {
		return err
	}

	// Start the service in a goroutine so it doesn't block.
	go func() {
		err := service.Start(config.Service.Port)
		if err != nil {
			log.Println(err.Error())
		}
	}()

	// Intercept the SIGINT, SIGHUP, SIGTERM, and SIGQUIT signals, shutting down
	// the service as gracefully as possible if they are encountered.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan,
		syscall.SIGINT,
		syscall.SIGHUP,
		syscall.SIGTERM,
		syscall.SIGQUIT)

	// Block till we receive one of the above signals.
	<-sigChan

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Wait for connections to close until the deadline elapses.
	service.Shutdown(ctx)
	log.Println("Shutting down")
	return nil
}

// Package lifecycle pkg/lifecycle/lifecycle.go hosts long-running services
// with signal handling and bounded graceful shutdown.
package lifecycle

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const ShutdownTimeout = 10 * time.Second

// Service defines the interface that all hosted services must implement.
// Start blocks until the service stops or ctx is canceled; Stop releases
// resources after the context driving Start has been canceled.
type Service interface {
	Start(context.Context) error
	Stop(context.Context) error
}

// Run starts every service and blocks until a signal arrives, the context is
// canceled, or a service fails. Services are stopped in reverse start order
// under a shutdown timeout.
func Run(ctx context.Context, services ...Service) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errChan := make(chan error, len(services))

	for _, svc := range services {
		go func(svc Service) {
			if err := svc.Start(ctx); err != nil {
				select {
				case errChan <- err:
				default:
					log.Printf("service error: %v", err)
				}
			}
		}(svc)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	defer signal.Stop(sigChan)

	var runErr error

	select {
	case sig := <-sigChan:
		log.Printf("Received signal %v, initiating shutdown", sig)
	case err := <-errChan:
		runErr = fmt.Errorf("service failed: %w", err)
	case <-ctx.Done():
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer shutdownCancel()

	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Stop(shutdownCtx); err != nil {
			log.Printf("Error stopping service: %v", err)

			if runErr == nil {
				runErr = fmt.Errorf("failed to stop service: %w", err)
			}
		}
	}

	return runErr
}

package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photodesk/internal/bookings/service"
	"photodesk/pkg/config"
)

// Application runs the periodic queue drain until a shutdown signal
// arrives. Each tick processes at most DrainBatchSize bookings from the
// global queue; per-booking mirroring keeps the photographer queues
// consistent without any extra work here.
type Application struct {
	cfg        *config.Config
	dispatcher service.QueueDispatcher
}

func NewApplication(cfg *config.Config, dispatcher service.QueueDispatcher) *Application {
	return &Application{
		cfg:        cfg,
		dispatcher: dispatcher,
	}
}

func (a *Application) Run() {
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(a.cfg.DrainInterval)
	defer ticker.Stop()

	a.cfg.Log.Info("Queue drain loop started",
		"interval", a.cfg.DrainInterval,
		"batch_size", a.cfg.DrainBatchSize,
	)

	for {
		select {
		case <-ticker.C:
			a.drainBatch()

		case sig := <-shutdown:
			a.cfg.Log.Info("Shutdown signal received", "signal", sig)
			a.gracefulShutdown()
			return
		}
	}
}

func (a *Application) drainBatch() {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	processed := 0
	for processed < a.cfg.DrainBatchSize {
		booking, err := a.dispatcher.ProcessNext(ctx)
		if booking == nil {
			break
		}
		if err != nil {
			a.cfg.Log.Error("Booking processed with storage failure", "id", booking.ID, "error", err)
		}
		processed++
	}

	if processed > 0 {
		a.cfg.Log.Info("Drain tick complete", "processed", processed)
	}
}

// gracefulShutdown drains whatever is still queued so no accepted booking
// is lost across a restart; queue contents live only in memory.
func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	processed, err := a.dispatcher.ProcessAllQueued(ctx)
	if err != nil {
		a.cfg.Log.Error("Final drain failed", "error", err)
	}

	a.cfg.Log.Info("Shutdown complete", "final_drain_processed", processed)
}

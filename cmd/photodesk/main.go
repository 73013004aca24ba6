package main

import (
	"photodesk/internal/bookings/repository"
	"photodesk/internal/bookings/service"
	"photodesk/pkg/app"
	"photodesk/pkg/config"
	"photodesk/pkg/storage"
)

const ServiceName = "photodesk"

// The binary runs the queue drain worker. The CRUD and package surfaces are
// library APIs for the embedding request layer; only the dispatcher needs a
// process of its own.
func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting photodesk service")

	store, err := storage.NewFileStore(cfg.DataDir)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize record store", "error", err)
	}

	bookingRepo, err := repository.NewFileBookingRepository(cfg, store)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize booking repository", "error", err)
	}

	dispatcher := service.NewQueueDispatcher(bookingRepo, cfg)
	cfg.Log.Info("Queue dispatcher initialized", "data_dir", cfg.DataDir)

	app.NewApplication(cfg, dispatcher).Run()
}

package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/setanarut/nbody"
	"github.com/setanarut/nbody/utils/scene"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	dbPath := flag.String("db", "nbody.db", "SQLite settings database (empty disables persistence)")
	scenePath := flag.String("scene", "", "JSON scene to load at startup")
	galaxy := flag.Bool("galaxy", false, "Start with a generated galaxy")
	seed := flag.Uint64("seed", 1, "Galaxy seed")
	rate := flag.Int("rate", 60, "Ticks per second")
	dt := flag.Float64("dt", 0, "Tick length (default: 1/rate)")
	level := flag.Float64("contour", 0, "Field strength contour level (0 disables)")
	flag.Parse()

	if *rate <= 0 {
		log.Fatalf("rate must be positive, got %d", *rate)
	}
	tickLength := *dt
	if tickLength <= 0 {
		tickLength = 1 / float64(*rate)
	}

	params := nbody.DefaultParams()
	space := nbody.NewSpace()

	var store *Store
	if *dbPath != "" {
		var err error
		store, err = OpenStore(*dbPath)
		if err != nil {
			log.Fatalf("store: %v", err)
		}
		defer store.Close()

		params, err = store.LoadParams(params)
		if err != nil {
			log.Printf("using default settings: %v", err)
		}
	}

	var sc *scene.Scene
	switch {
	case *scenePath != "":
		var err error
		sc, err = scene.Load(*scenePath)
		if err != nil {
			log.Fatalf("scene: %v", err)
		}
		if *dt <= 0 {
			tickLength = sc.Dt
		}
	case *galaxy:
		cfg := scene.DefaultGalaxy()
		cfg.Seed = *seed
		cfg.Gravity = params.Gravity
		cfg.Dt = tickLength
		sc = scene.Galaxy(cfg)
	}
	if sc != nil {
		if err := sc.Apply(space); err != nil {
			log.Fatalf("scene: %v", err)
		}
		params = sc.Params(params)
		log.Printf("Loaded scene %q with %d bodies", sc.Name, space.BodyCount())
	}

	hub := NewHub()
	go hub.Run()

	driver := NewDriver(space, params, tickLength, *rate, hub)
	driver.SetStore(store)
	driver.SetContour(*level)
	hub.SetDriver(driver)
	go driver.Run()

	mux := SetupRoutes(hub)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		log.Printf("Server starting on %s (%d ticks/s, dt %v)", *addr, *rate, tickLength)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down...")
	driver.Stop()
	server.Close()
}

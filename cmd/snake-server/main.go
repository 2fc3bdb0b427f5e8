package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cbodonnell/snake/pkg/api"
	"github.com/cbodonnell/snake/pkg/api/handlers"
	"github.com/cbodonnell/snake/pkg/config"
	"github.com/cbodonnell/snake/pkg/game"
	"github.com/cbodonnell/snake/pkg/game/types"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/network"
	"github.com/cbodonnell/snake/pkg/queue"
	"github.com/cbodonnell/snake/pkg/state"
	"github.com/cbodonnell/snake/pkg/version"
	"github.com/cbodonnell/snake/pkg/workers"
	"github.com/google/uuid"
)

func main() {
	cfg, err := config.Load("snake-server", os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(2)
	}

	parsedLogLevel, err := log.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting server version %s", version.Get())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	playfield, err := types.NewPlayfield(cfg.PlayfieldWidth, cfg.PlayfieldHeight)
	if err != nil {
		panic(fmt.Sprintf("Failed to create playfield: %v", err))
	}
	simulation, err := game.NewSimulation(game.NewSimulationOptions{
		Playfield: playfield,
		Seed:      cfg.ResolvedSeed(),
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create simulation: %v", err))
	}

	stateManager := state.NewInMemoryStateManager()
	eventQueue := queue.NewInMemoryQueue(1024)
	gameManager := game.NewGameManager(game.NewGameManagerOptions{
		Simulation:       simulation,
		StateManager:     stateManager,
		EventQueue:       eventQueue,
		GameLoopInterval: cfg.TickRate,
	})

	networkManager := network.NewNetworkManager(network.NewNetworkManagerOptions{
		Input:        gameManager.Input(),
		StateManager: stateManager,
	})

	var tlsConfig *api.TLSConfig
	if cfg.TLSEnabled() {
		tlsConfig = &api.TLSConfig{
			CertFile: cfg.TLSCertFile,
			KeyFile:  cfg.TLSKeyFile,
		}
	}

	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port: cfg.Port,
		TLS:  tlsConfig,
		Session: handlers.Session{
			ID:             uuid.NewString(),
			Width:          playfield.Width(),
			Height:         playfield.Height(),
			TickRateMillis: cfg.TickRate.Milliseconds(),
			Version:        version.Get(),
		},
		StateManager:     stateManager,
		Input:            gameManager.Input(),
		WebSocketHandler: networkManager.HandleWebSocket,
	})
	go apiServer.Start()

	workerCtx, stopWorker := context.WithCancel(context.Background())
	broadcastWorker := workers.NewBroadcastMessageWorker(workers.NewBroadcastMessageWorkerOptions{
		Broadcaster: networkManager,
		EventQueue:  eventQueue,
		Interval:    cfg.TickRate,
	})
	workerDone := make(chan struct{})
	go func() {
		broadcastWorker.Start(workerCtx)
		close(workerDone)
	}()

	log.Info("Waiting for a client to connect on /ws")
	select {
	case <-networkManager.FirstClientConnected():
	case <-ctx.Done():
	}

	log.Info("Starting game manager")
	result, err := gameManager.Start(ctx)
	if err != nil {
		log.Error("Game loop failed: %v", err)
	}

	stopWorker()
	<-workerDone
	networkManager.CloseAll("game over")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop API server: %v", err)
	}

	if !result.Aborted && err == nil {
		fmt.Println("Game Over!")
	}
}

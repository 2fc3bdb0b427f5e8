package main

import (
	"context"
	"fmt"
	"os"

	clientgame "github.com/cbodonnell/snake/client/game"
	"github.com/cbodonnell/snake/pkg/config"
	"github.com/cbodonnell/snake/pkg/game"
	"github.com/cbodonnell/snake/pkg/game/types"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/state"
	"github.com/cbodonnell/snake/pkg/version"
)

func main() {
	cfg, err := config.Load("snake", os.Args[1:])
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

	log.Info("Starting snake version %s", version.Get())

	playfield, err := types.NewPlayfield(cfg.PlayfieldWidth, cfg.PlayfieldHeight)
	if err != nil {
		panic(fmt.Sprintf("Failed to create playfield: %v", err))
	}
	seed := cfg.ResolvedSeed()
	log.Debug("Food seed %d", seed)
	simulation, err := game.NewSimulation(game.NewSimulationOptions{
		Playfield: playfield,
		Seed:      seed,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create simulation: %v", err))
	}

	stateManager := state.NewInMemoryStateManager()
	gameManager := game.NewGameManager(game.NewGameManagerOptions{
		Simulation:       simulation,
		StateManager:     stateManager,
		GameLoopInterval: cfg.TickRate,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan game.Result, 1)
	go func() {
		result, err := gameManager.Start(ctx)
		if err != nil {
			log.Error("Game loop failed: %v", err)
		}
		results <- result
	}()

	g := clientgame.NewGame(clientgame.NewGameOptions{
		Debug:        parsedLogLevel >= log.LogLevelDebug,
		Playfield:    playfield,
		Scale:        cfg.PixelScale,
		StateManager: stateManager,
		Input:        gameManager.Input(),
		Results:      results,
		Stop:         cancel,
	})
	if err := clientgame.Run(g, "Snake"); err != nil {
		panic(fmt.Sprintf("Failed to run game: %v", err))
	}

	if result := g.Result(); result != nil && !result.Aborted {
		fmt.Println("Game Over!")
	}
}

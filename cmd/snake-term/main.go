package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cbodonnell/snake/client/sound"
	"github.com/cbodonnell/snake/client/terminal"
	"github.com/cbodonnell/snake/pkg/config"
	"github.com/cbodonnell/snake/pkg/game"
	"github.com/cbodonnell/snake/pkg/game/types"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/queue"
	"github.com/cbodonnell/snake/pkg/state"
	"github.com/cbodonnell/snake/pkg/version"
	"github.com/gdamore/tcell/v2"
)

// logFile receives the logs so they do not draw over the playfield
const logFile = "snake-term.log"

func main() {
	cfg, err := config.Load("snake-term", os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(2)
	}

	parsedLogLevel, err := log.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		panic(fmt.Sprintf("Failed to open log file: %v", err))
	}
	defer f.Close()

	logger := log.New(f, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Starting snake-term version %s", version.Get())

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

	sounds := sound.NewPlayer()
	if err := sounds.Initialize(); err != nil {
		log.Warn("Sound disabled: %v", err)
	}
	defer sounds.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		panic(fmt.Sprintf("Failed to create screen: %v", err))
	}
	if err := screen.Init(); err != nil {
		panic(fmt.Sprintf("Failed to initialize screen: %v", err))
	}

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

	term := terminal.NewTerminal(terminal.NewTerminalOptions{
		Screen:       screen,
		Playfield:    playfield,
		StateManager: stateManager,
		Input:        gameManager.Input(),
		Events:       eventQueue,
		Sounds:       sounds,
	})
	result, err := term.Run(ctx, results)
	screen.Fini()
	if err != nil {
		log.Error("Terminal failed: %v", err)
	}

	if result != nil && !result.Aborted {
		fmt.Printf("Game Over! (%s, length %d)\n", result.Reason, result.Length)
	}
}

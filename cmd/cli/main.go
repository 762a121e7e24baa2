package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/config"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/entity"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/terminal"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/tictactoe"
)

// main - plays a hot-seat game in the terminal.
func main() {
	configPath := flag.String("config", "", "path to config.yml, environment only when empty")
	nameX := flag.String("x", "", "name of the X player")
	nameO := flag.String("o", "", "name of the O player")
	noClear := flag.Bool("no-clear", false, "keep previous boards on screen")
	flag.Parse()

	if err := run(*configPath, *nameX, *nameO, !*noClear); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, nameX, nameO string, clear bool) error {
	conf, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	// the board owns stdout, logs go to stderr
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: conf.Level()}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine := tictactoe.NewGameEngine()
	if err = engine.SetPlayers(entity.NewPlayer(entity.MarkerX, nameX), entity.NewPlayer(entity.MarkerO, nameO)); err != nil {
		return fmt.Errorf("failed to set players: %w", err)
	}

	game := terminal.NewGame(logger, engine, terminal.NewRenderer(os.Stdout, clear))

	return game.Run(ctx, os.Stdin)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadEnv()
	}

	return config.Load(path)
}

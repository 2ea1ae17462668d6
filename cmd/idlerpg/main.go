package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"idlerpg/internal/command"
	"idlerpg/internal/config"
	"idlerpg/internal/loop"
	"idlerpg/internal/progression"
	"idlerpg/internal/save"
	"idlerpg/internal/telemetry"
	"idlerpg/internal/ui"
)

const (
	hideCursor = "\x1b[?25l"
	showCursor = "\x1b[?25h"
)

func main() {
	settings, err := config.LoadSettings()
	if err != nil {
		log.Fatalf("load settings: %v", err)
	}

	flag.StringVar(&settings.DataDir, "data-dir", settings.DataDir, "directory for saves and the log")
	flag.StringVar(&settings.SaveBackend, "backend", settings.SaveBackend, "save backend: json or sqlite")
	flag.StringVar(&settings.Difficulty, "difficulty", settings.Difficulty, "balance preset: normal, casual or hard")
	flag.StringVar(&settings.BalanceFile, "balance", settings.BalanceFile, "balance yaml file (overrides -difficulty)")
	ephemeral := flag.Bool("ephemeral", false, "keep the save in memory only")
	flag.Parse()

	if *ephemeral {
		settings.SaveBackend = save.BackendMemory
	}
	if err := run(settings); err != nil {
		log.Fatal(err)
	}
}

func run(settings config.Settings) error {
	balance, err := settings.Balance()
	if err != nil {
		return fmt.Errorf("load balance: %w", err)
	}

	if err := os.MkdirAll(settings.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	logFile, err := os.OpenFile(filepath.Join(settings.DataDir, "idlerpg.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()
	logger := log.New(logFile, "", log.LstdFlags)

	store, err := save.Open(settings.SaveBackend, settings.DataDir)
	if err != nil {
		return fmt.Errorf("open save: %w", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pristine := progression.NewBaseStats(balance)
	state, err := save.LoadOrNew(ctx, store, pristine, logger)
	if err != nil {
		return err
	}

	printer := message.NewPrinter(language.English)
	events := telemetry.NewMemoryRepository(telemetry.DefaultCapacity)
	engine := progression.New(state, progression.Options{
		Balance:  balance,
		Printer:  printer,
		Recorder: events,
	})
	controller := command.NewController(engine, logger)
	runner := loop.NewRunner(engine, controller, store, loop.Options{
		Step:     settings.Tick,
		Frame:    settings.Frame,
		Autosave: settings.Autosave,
		Logger:   logger,
		Renderer: ui.NewRenderer(os.Stdout, printer),
		Recorder: events,
	})

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("stdin is not a terminal")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("raw terminal: %w", err)
	}
	fmt.Print(hideCursor)
	defer func() {
		fmt.Print(showCursor + "\r\n")
		_ = term.Restore(fd, oldState)
	}()

	start := time.Now()
	logger.Printf("session: start (backend %s, data %s)", settings.SaveBackend, settings.DataDir)

	tokens := make(chan command.Token, 16)
	go func() {
		if err := ui.ReadTokens(ctx, os.Stdin, tokens); err != nil && ctx.Err() == nil {
			logger.Printf("input: %v", err)
		}
	}()

	runErr := runner.Run(ctx, tokens)
	logSession(logger, events, start)
	if runErr != nil {
		return fmt.Errorf("final save: %w", runErr)
	}
	return nil
}

func logSession(logger *log.Logger, events *telemetry.MemoryRepository, start time.Time) {
	all, err := events.GetEvents(start, nil)
	if err != nil {
		logger.Printf("session: summary: %v", err)
		return
	}
	stats, err := telemetry.CalculateStats(all, start, time.Now())
	if err != nil {
		logger.Printf("session: summary: %v", err)
		return
	}
	perks := 0
	for _, n := range stats.PerksBought {
		perks += n
	}
	logger.Printf("session: end after %s: %d kills (%.1f/min), %d gold earned, %d spent, %d perks, %d rebirths, %d evolves, %d saves, %d failed",
		time.Since(start).Round(time.Second), stats.Kills, stats.KillsPerMinute, stats.GoldEarned, stats.GoldSpent,
		perks, stats.Rebirths, stats.Evolves, stats.Saves, stats.SaveFailures)
}

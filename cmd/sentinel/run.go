package main

// #region imports
import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	engine "github.com/danielpatrickdp/masking-engine/go-engine"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/bridge"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/extract"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/persist"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/prompt"
	"github.com/danielpatrickdp/masking-engine/go-engine/internal/signal"
)

// #endregion imports

// #region run-command

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "run a live session with a stdin REPL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runSession(cfg)
		},
	}
}

func runSession(cfg appConfig) error {
	log := newLogger(cfg)

	store, err := persist.NewStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	pool := prompt.DefaultPool()
	if cfg.PromptFile != "" {
		pool, err = prompt.LoadPoolFile(cfg.PromptFile)
		if err != nil {
			return fmt.Errorf("load prompts: %w", err)
		}
	}

	eng, err := engine.New(engine.Options{
		Store:  store,
		Pool:   pool,
		Logger: log,
	})
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	eng.Subscribe(engine.KindTransition, func(ev engine.Event) {
		t := ev.(engine.TransitionEvent).Transition
		fmt.Printf("\n[transition] %s confidence=%.2f\n> ", t.Type, t.Confidence)
	})
	eng.Subscribe(engine.KindPromptDelivered, func(ev engine.Event) {
		rec := ev.(engine.PromptDelivered).Record
		fmt.Printf("\n[prompt:%s] %s\n> ", rec.Category, rec.Text)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.AudioBridgeURL != "" {
		b := bridge.NewAudioBridge(
			bridge.DefaultConfig(cfg.AudioBridgeURL),
			func(f extract.AudioFeatures, at time.Time) {
				feat := f
				eng.Ingest(engine.Input{Channel: signal.ChannelAudio, Audio: &feat, At: at})
			},
			log,
		)
		go func() {
			if err := b.Run(ctx); err != nil && ctx.Err() == nil {
				log.Warn().Err(err).Msg("audio bridge stopped")
			}
		}()
		defer b.Close()
	}

	if err := eng.Start(ctx); err != nil {
		return err
	}
	defer eng.Stop()

	fmt.Printf("Sentinel session ready.\n  DB: %s\n", cfg.DBPath)
	fmt.Println("Type text to ingest; /app <name>, /snapshot, /stats, /quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if done := handleLine(eng, line); done {
			break
		}
	}
	return scanner.Err()
}

// handleLine dispatches one REPL line; returns true on quit.
func handleLine(eng *engine.Engine, line string) bool {
	switch {
	case line == "/quit" || line == "quit" || line == "exit":
		return true
	case strings.HasPrefix(line, "/app "):
		eng.Ingest(engine.Input{Channel: signal.ChannelContext, App: strings.TrimPrefix(line, "/app ")})
	case line == "/snapshot":
		printJSON(eng.Snapshot())
	case line == "/stats":
		printJSON(eng.Stats())
	case strings.HasPrefix(line, "/"):
		fmt.Println("unknown command")
	default:
		eng.Ingest(engine.Input{Channel: signal.ChannelText, Text: line})
	}
	return false
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("encode: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

// #endregion run-command

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"interrogation/internal/config"
	"interrogation/internal/console"
	"interrogation/internal/game"
	"interrogation/internal/metrics"
	"interrogation/internal/narrative"
	"interrogation/internal/scenario"
	"interrogation/internal/server"
	"interrogation/internal/turn"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "interrogation",
		Short: "Question the suspects of a murder case and name the killer",
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interrogation API over HTTP",
		RunE:  runServe,
	}

	var apiKey string
	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Play the case in this terminal",
		Long:  `Starts a case in the terminal. Use @<id> to pick who to question, /who to list the characters, /accuse <id> to end the game and /quit to leave.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlay(cmd, apiKey)
		},
	}
	playCmd.Flags().StringVar(&apiKey, "api-key", "", "key for the language model provider (default $LLM_API_KEY, or the bypass credential)")

	rootCmd.AddCommand(serveCmd, playCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app is everything both commands share.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	handler *turn.Handler
}

func newApp(reg prometheus.Registerer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger()
	slog.SetDefault(logger)

	rules, err := game.LoadRules(cfg.RulesPath)
	if err != nil {
		return nil, err
	}

	store, err := newStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	// Fail at startup rather than on the first request.
	if _, err := store.Load(context.Background(), cfg.ScenarioID); err != nil {
		return nil, err
	}

	params := narrative.Params{Temperature: cfg.Temperature, MaxTokens: cfg.MaxTokens}
	var live narrative.Generator
	switch cfg.Provider {
	case "gemini":
		params.Model = cfg.GeminiModel
		live = narrative.NewGeminiGenerator(params, logger)
	default:
		params.Model = cfg.OpenAIModel
		live = narrative.NewOpenAIGenerator(params, cfg.OpenAIBaseURL, logger)
	}
	logger.Info("Using narrative backend", "provider", cfg.Provider, "model", params.Model)

	gen := &narrative.Switch{
		BypassCredential: cfg.BypassCredential,
		Bypass:           &narrative.Bypass{Delay: cfg.BypassDelay},
		Live:             live,
	}

	opts := []turn.Option{turn.WithLogger(logger)}
	if reg != nil {
		opts = append(opts, turn.WithMetrics(metrics.New(reg)))
	}
	return &app{
		cfg:     cfg,
		logger:  logger,
		handler: turn.NewHandler(store, cfg.ScenarioID, rules, gen, opts...),
	}, nil
}

func newStore(cfg *config.Config, logger *slog.Logger) (scenario.Store, error) {
	switch {
	case cfg.UseSupabase():
		s, err := scenario.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseTable)
		if err != nil {
			return nil, err
		}
		logger.Info("✅ Successfully connected to Supabase!", "table", cfg.SupabaseTable)
		return scenario.NewCachedStore(s), nil
	case cfg.ScenarioDir != "":
		return scenario.NewCachedStore(scenario.NewDirStore(cfg.ScenarioDir)), nil
	default:
		return scenario.NewCachedStore(scenario.NewEmbeddedStore()), nil
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a, err := newApp(reg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	if a.cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           server.NewRouter(a.handler, reg, a.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", "addr", a.cfg.Addr, "scenario", a.cfg.ScenarioID)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runPlay(cmd *cobra.Command, apiKey string) error {
	a, err := newApp(nil)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	if apiKey == "" {
		apiKey = os.Getenv("LLM_API_KEY")
	}
	if apiKey == "" {
		apiKey = a.cfg.BypassCredential
		fmt.Fprintln(cmd.OutOrStdout(), "No API key given, playing in bypass mode.")
	}

	session := console.NewSession(a.handler, apiKey, cmd.OutOrStdout())
	return session.Run(cmd.Context(), cmd.InOrStdin())
}

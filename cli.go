package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/myproject/weather-agent/agent"
	"github.com/myproject/weather-agent/assistant"
	"github.com/myproject/weather-agent/internal/cache"
	"github.com/myproject/weather-agent/internal/geo"
	"github.com/myproject/weather-agent/internal/telemetry"
	"github.com/myproject/weather-agent/internal/weather"
)

type rootFlags struct {
	configDir string
	debug     bool
	trace     bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "weather-agent",
		Short:         "Chat with a weather assistant that looks up your location and forecast.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), flags, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.PersistentFlags().StringVar(&flags.configDir, "config", ".", "directory containing agent.yaml and .env")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&flags.trace, "trace", false, "print tool spans to stderr")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "chat",
			Short: "Start an interactive session (default).",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runChat(cmd.Context(), flags, cmd.InOrStdin(), cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "ask <query>",
			Short: "Answer a single question and exit.",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runAsk(cmd.Context(), flags, strings.Join(args, " "), cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "tools",
			Short: "Print the tool definitions offered to the model.",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return printTools(cmd.OutOrStdout())
			},
		},
	)
	return cmd
}

// session holds everything a chat or ask run needs and releases it on close.
type session struct {
	agent  *agent.Agent
	logger *zap.SugaredLogger
	closer []func()
}

func (s *session) close() {
	for i := len(s.closer) - 1; i >= 0; i-- {
		s.closer[i]()
	}
}

func newSession(ctx context.Context, flags *rootFlags) (*session, error) {
	cfg, err := agent.LoadAgentConfig(flags.configDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := agent.NewLogger(cfg.Log.Debug || flags.debug)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	s := &session{logger: logger}
	s.closer = append(s.closer, func() { _ = logger.Sync() })

	if flags.trace {
		shutdown, err := telemetry.Setup(os.Stderr)
		if err != nil {
			s.close()
			return nil, err
		}
		s.closer = append(s.closer, func() { _ = shutdown(context.Background()) })
	}

	store, err := openCache(ctx, cfg, logger)
	if err != nil {
		s.close()
		return nil, err
	}
	if c, ok := store.(io.Closer); ok {
		s.closer = append(s.closer, func() { _ = c.Close() })
	}

	resolver, err := geo.NewResolver(geo.Config{
		APIKey:         cfg.Weather.APIKey,
		DefaultAddress: cfg.Weather.DefaultLocation,
		BaseURL:        cfg.Weather.GeocodeBaseURL,
		Timeout:        cfg.Weather.Timeout,
		RateLimit:      geocodeRateLimit(cfg.Weather.RateLimit),
		Cache:          store,
		CacheTTL:       cfg.Cache.TTL,
	}, logger)
	if err != nil {
		s.close()
		return nil, err
	}

	opts := []weather.Option{
		weather.WithTimeout(cfg.Weather.Timeout),
		weather.WithUnitsSystem(strings.ToUpper(cfg.Weather.UnitsSystem)),
		weather.WithRateLimit(cfg.Weather.RateLimit, cfg.Weather.RateBurst),
		weather.WithRetry(uint64(max(cfg.Weather.MaxRetries, 0)), 0),
		weather.WithCache(store, cfg.Cache.TTL),
		weather.WithLogger(logger),
	}
	if cfg.Weather.BaseURL != "" {
		opts = append(opts, weather.WithBaseURL(cfg.Weather.BaseURL))
	}
	client := weather.New(cfg.Weather.APIKey, opts...)

	s.agent = assistant.New(cfg, resolver, client, logger)
	logger.Debugw("assistant ready", "model", cfg.Model, "location", resolver.DefaultAddress(), "react", cfg.ReAct.Enabled)
	return s, nil
}

func openCache(ctx context.Context, cfg *agent.AgentConfig, logger *zap.SugaredLogger) (cache.Cache, error) {
	switch {
	case !cfg.Cache.Enabled:
		return cache.Nop{}, nil
	case cfg.Cache.Addr != "":
		return cache.DialRedis(ctx, cfg.Cache.Addr, logger)
	default:
		return cache.NewMemory(), nil
	}
}

// geocodeRateLimit converts the shared requests-per-second setting to the
// whole-number limit the maps client takes. Positive rates are rounded up;
// zero keeps the client's default.
func geocodeRateLimit(perSecond float64) int {
	if perSecond <= 0 {
		return 0
	}
	return max(1, int(math.Ceil(perSecond)))
}

func runAsk(ctx context.Context, flags *rootFlags, query string, out io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	s, err := newSession(ctx, flags)
	if err != nil {
		return err
	}
	defer s.close()

	reply, err := s.agent.Invoke(ctx, query)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, reply)
	return err
}

func runChat(ctx context.Context, flags *rootFlags, in io.Reader, out io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	s, err := newSession(ctx, flags)
	if err != nil {
		return err
	}
	defer s.close()

	fmt.Fprintln(out, "Weather assistant ready. Type 'exit' to quit.")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "You> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "exit" || text == "quit" {
			break
		}
		reply, err := s.agent.Invoke(ctx, text)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Errorw("agent error", "error", err)
			fmt.Fprintln(out, "Agent> Sorry, something went wrong. Please try again.")
			continue
		}
		fmt.Fprintf(out, "Agent> %s\n", reply)
		s.agent.AddMemory(reply)
	}
	return scanner.Err()
}

func printTools(out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(assistant.Tools(nil, nil))
}

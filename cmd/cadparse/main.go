package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"cadparse/internal/config"
	"cadparse/internal/llm"
	"cadparse/internal/pipeline"
	"cadparse/internal/server"
	"cadparse/internal/util/jsonutil"
)

// fakeOutput is the canned extraction payload used by -fake runs.
const fakeOutput = `{
  "base_shape": {
    "type": "circle",
    "dimensions": {
      "radius": "10mm",
      "thickness": "5mm"
    }
  },
  "features": [
    {
      "type": "hole",
      "location": "center",
      "dimensions": {
        "diameter": "2mm"
      }
    }
  ]
}`

var useFake bool

var rootCmd = &cobra.Command{
	Use:   "cadparse",
	Short: "cadparse - natural-language CAD prompts to validated JSON",
}

var parseCmd = &cobra.Command{
	Use:   "parse [prompt]",
	Short: "Parse one CAD prompt and print the result record",
	RunE:  runParse,
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive loop, one prompt per turn (type 'exit' to quit)",
	RunE:  runRepl,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the parse pipeline over HTTP",
	RunE:  runServe,
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&useFake, "fake", false, "use a canned extraction client instead of Gemini")
	rootCmd.AddCommand(parseCmd, replCmd, serveCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	var base llm.Client
	if useFake {
		base = llm.NewFakeClient(fakeOutput)
	} else {
		if cfg.APIKey == "" {
			return nil, errors.New("GEMINI_API_KEY is not set")
		}
		cli, err := llm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		base = cli
	}
	return llm.Wrap(base,
		llm.WithLogging(nil),
		llm.Retry(cfg.MaxAttempts, 0),
		llm.Timeout(cfg.LLMTimeout),
	), nil
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	input := strings.TrimSpace(strings.Join(args, " "))
	if input == "" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		input = strings.TrimSpace(string(b))
	}
	if input == "" {
		return errors.New("empty prompt")
	}

	cli, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer cli.Close()

	pipe := &pipeline.Pipeline{LLM: cli}
	printState(pipe.Run(ctx, input))
	return nil
}

func runRepl(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	cli, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer cli.Close()
	pipe := &pipeline.Pipeline{LLM: cli}

	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Enter a CAD prompt: ")
		if !sc.Scan() {
			fmt.Println()
			return sc.Err()
		}
		input := strings.TrimSpace(sc.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "exit") {
			return nil
		}
		// Each turn is an independent run; no conversation state is kept.
		printState(pipe.Run(ctx, input))
		fmt.Println()
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer cli.Close()

	recent, err := server.NewRecentResults(128)
	if err != nil {
		return err
	}
	api := server.NewAPI(&pipeline.Pipeline{LLM: cli}, recent)
	srv := server.New(cfg.Port, server.NewMux(api))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Println("shutting down")
		return srv.Shutdown(context.Background())
	}
}

func printState(st pipeline.State) {
	fmt.Println("\n--- PARSING RESULT ---")
	b, err := jsonutil.MarshalNoEscapeIndent(st, "", "  ")
	if err != nil {
		log.Printf("encode result: %v", err)
		return
	}
	fmt.Println(string(b))
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/jessevdk/go-flags"

	"github.com/jadenj13/courier/internals/chat"
	"github.com/jadenj13/courier/internals/config"
	"github.com/jadenj13/courier/internals/llm"
	"github.com/jadenj13/courier/internals/notify"
	"github.com/jadenj13/courier/internals/prompt"
)

type options struct {
	Config   string `short:"c" long:"config" description:"path to a YAML config file (environment variables still override it)"`
	Question string `short:"q" long:"question" description:"question to ask the model"`
	Role     string `long:"role" description:"persona for the system prompt"`
	Style    string `long:"style" description:"answering style for the system prompt"`
	NoHist   bool   `long:"no-history" description:"skip the default warm-up history"`
	Verbose  bool   `short:"v" long:"verbose" description:"debug logging"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			return
		}
		os.Exit(2)
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	// Logs go to stderr; stdout is reserved for model output.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})).With("run", uuid.NewString())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, log); err != nil {
		log.Error("chat failed", "err", err)
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, log *slog.Logger) error {
	cfg, err := loadConfig(opts.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	vars := prompt.Vars{
		Role:     opts.Role,
		Style:    opts.Style,
		Question: opts.Question,
	}
	if opts.NoHist {
		vars.History = []llm.Message{}
	}

	model, err := llm.New(ctx, cfg, log)
	if err != nil {
		return err
	}

	reply, err := converse(ctx, model, vars, chat.Stdout(), log)
	if err != nil {
		return err
	}

	// Delivery failures are logged but don't fail the run: the answer
	// already reached stdout.
	notifier := notify.NewSlackNotifier(cfg.Slack.BotToken, cfg.Slack.ChannelID)
	question := opts.Question
	if question == "" {
		question = prompt.Default().Question
	}
	if err := notifier.Notify(ctx, question, reply); err != nil {
		log.Error("slack delivery failed", "err", err)
	}

	return nil
}

// converse runs the generate-then-stream exchange: one retried
// single-shot answer written to the sink, then the same conversation
// streamed incrementally. Returns the single-shot reply text.
func converse(ctx context.Context, model llm.Model, vars prompt.Vars, sink chat.Sink, log *slog.Logger) (string, error) {
	messages, err := prompt.Messages(vars)
	if err != nil {
		return "", err
	}
	log.Info("assembled prompt", "messages", len(messages))

	gen := chat.NewGenerator(model, log)

	reply, err := gen.GenerateWithRetry(ctx, messages)
	if err != nil {
		return "", err
	}
	if _, err := sink.WriteString(reply.Content + "\n"); err != nil {
		return "", &chat.SinkError{Err: err}
	}
	if err := sink.Flush(); err != nil {
		return "", &chat.SinkError{Err: err}
	}

	stream, err := gen.Stream(ctx, messages)
	if err != nil {
		return "", err
	}
	reporter := chat.NewReporter(sink, log)
	if err := reporter.Report(chat.NewCancellable(ctx, stream, log)); err != nil {
		return "", err
	}

	return reply.Content, nil
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.FromEnv()
}

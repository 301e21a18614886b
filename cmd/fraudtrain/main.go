// Command fraudtrain trains a boosted-tree fraud classifier on a credit-card
// transactions file and prints its evaluation on a held-out split.
//
// Options come from flags, then environment variables, then a .env file in the working
// directory. Run with --help for the list.
package main

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/joho/godotenv"

	"github.com/YuminosukeSato/fraudtree/config"
	"github.com/YuminosukeSato/fraudtree/pkg/errors"
	"github.com/YuminosukeSato/fraudtree/pkg/log"
	"github.com/YuminosukeSato/fraudtree/runner"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "fraudtrain: reading .env: %v\n", err)
		return runner.ExitConfiguration
	}

	cfg := config.Default()
	parser, err := config.NewParser(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fraudtrain: %v\n", err)
		return runner.ExitFailure
	}
	switch err := parser.Parse(os.Args[1:]); {
	case err == arg.ErrHelp:
		parser.WriteHelp(os.Stdout)
		return runner.ExitOK
	case err != nil:
		parser.WriteUsage(os.Stderr)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return runner.ExitConfiguration
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "fraudtrain: %v\n", err)
		return runner.ExitCode(err)
	}
	logger, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fraudtrain: %v\n", err)
		return runner.ExitConfiguration
	}
	log.SetLogger(logger)
	log.RouteWarnings(logger)

	r := runner.New(cfg, runner.NewConsoleReporter(os.Stdout))
	if _, err := r.Run(); err != nil {
		fmt.Fprintln(os.Stdout)
		fields := []any{
			log.RunIDKey, r.RunID(),
			log.ErrorCodeKey, runner.ErrorCode(err),
			log.ErrAttrKey, err,
		}
		if hint := runner.Suggestion(err); hint != "" {
			fields = append(fields, log.SuggestionKey, hint)
		}
		logger.Error("Training run failed", fields...)
		return runner.ExitCode(err)
	}

	if !cfg.NoWait {
		fmt.Println("Press enter to finish")
		_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
	}
	return runner.ExitOK
}

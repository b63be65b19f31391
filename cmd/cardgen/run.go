package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"

	cardgen "github.com/promoforge/cardgen"
	"github.com/promoforge/cardgen/internal/config"
)

// run executes the CLI and returns its exit code.
func run(args []string, env *Environment) int {
	flags := pflag.NewFlagSet("cardgen", pflag.ContinueOnError)
	flags.SetOutput(env.Stderr)
	configPath := flags.StringP("config", "c", "", "path to YAML config file")
	outputDir := flags.StringP("output", "o", "", "output directory (overrides config)")
	verbose := flags.BoolP("verbose", "v", false, "print a progress line per card")
	showVersion := flags.Bool("version", false, "print version and exit")
	flags.Usage = func() {
		fmt.Fprintln(env.Stderr, "Usage: cardgen [flags] <workbook.xlsx>")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		return ExitUsage
	}
	if *showVersion {
		fmt.Fprintln(env.Stdout, Version)
		return ExitSuccess
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return ExitUsage
	}
	workbook := flags.Arg(0)

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(env.Stderr, err)
			return exitCodeFor(err)
		}
		cfg = loaded
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}

	var opts []cardgen.Option
	if *verbose {
		opts = append(opts, cardgen.WithLogger(slog.New(slog.NewTextHandler(env.Stderr, nil))))
	}

	gen, err := cardgen.NewGenerator(cfg, opts...)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for snap := range gen.Progress() {
			if *verbose {
				fmt.Fprintf(env.Stdout, "%3d%% (%d/%d) %s\n",
					snap.Percentage, snap.Processed, snap.Total, snap.CurrentCard)
			}
		}
	}()

	res, genErr := gen.Generate(context.Background(), workbook)

	// Close on every path: releases the browser and ends the progress
	// stream the goroutine above is draining.
	closeErr := gen.Close()
	<-done

	if genErr != nil {
		fmt.Fprintln(env.Stderr, genErr)
		return exitCodeFor(genErr)
	}
	if closeErr != nil {
		fmt.Fprintf(env.Stderr, "closing renderer: %v\n", closeErr)
	}

	switch res.Outcome {
	case cardgen.OutcomeEmptyInput:
		fmt.Fprintln(env.Stdout, "No renderable rows in workbook.")
		return ExitSuccess
	case cardgen.OutcomeNoOutput:
		fmt.Fprintln(env.Stderr, "No card produced output; check templates and assets.")
		return ExitGeneral
	default:
		fmt.Fprintf(env.Stdout, "Created %s (%d/%d cards)\n", res.ArchivePath, res.Processed, res.Total)
		return ExitSuccess
	}
}

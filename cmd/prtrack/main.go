package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ericfisherdev/prtrack/internal/adapter/driving/cli"
	"github.com/ericfisherdev/prtrack/internal/application"
	"github.com/ericfisherdev/prtrack/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(config.DefaultEnvFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FailMessage(err))
		return 1
	}

	err = cli.Execute(context.Background(), os.Args[1:], cfg, os.Stdout)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, application.ErrCancelled):
		fmt.Fprintln(os.Stderr, "Cancelled.")
		return 0
	default:
		fmt.Fprintln(os.Stderr, cli.FailMessage(err))
		return 1
	}
}

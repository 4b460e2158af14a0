package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/studio-tracker/internal/cli"
	"github.com/yungbote/studio-tracker/internal/platform/envutil"
	"github.com/yungbote/studio-tracker/internal/platform/logger"
	"github.com/yungbote/studio-tracker/internal/platform/shutdown"
)

func main() {
	log, err := logger.New(envutil.String("LOG_MODE", "cli"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	root := cli.NewRootCmd(cli.Deps{Log: log, Out: os.Stdout, Err: os.Stderr})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		log.Sync()
		os.Exit(1)
	}
}

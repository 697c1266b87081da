// Command tracker runs the task-tracking engine: it merges the remote
// task API with the local store, performs the initial load, and serves
// the controller until interrupted.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ShubhamPP04/todo-list/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Printf("run: %v", err)
		stop()
		os.Exit(1)
	}
}

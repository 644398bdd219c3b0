package main

import (
	"context"
	"fmt"
	"os"

	"github.com/darknesspwnsu/tppcnomics-analytics/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	a.Start(context.Background())

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	if err := a.Run(addr); err != nil {
		a.Log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/eshaffer321/finops-recon/internal/cli"
	"github.com/eshaffer321/finops-recon/internal/infrastructure/config"
)

func main() {
	cfg := config.LoadOrEnv()
	flags := cli.ParseServeFlags(cfg)

	if err := cli.RunServe(cfg, flags); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

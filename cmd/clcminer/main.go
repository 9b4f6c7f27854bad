package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/davidzita/clcminer/internal/config"
	"github.com/davidzita/clcminer/internal/miner"
)

func main() {
	os.Exit(run())
}

func run() int {
	app := &cli.App{
		Name:  "clcminer",
		Usage: "mines secp256k1 proof-of-work solutions for a CLC pool",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "clcminer.toml",
				Usage:   "path to a TOML configuration file",
			},
		},
		Action: mine,
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("[ERROR] %v", err)
		return 1
	}
	return 0
}

func mine(c *cli.Context) error {
	cfgPath := c.String("config")

	if _, err := os.Stat(cfgPath); err != nil {
		color.Yellow("[WARN] config file not found at %s, using default values", cfgPath)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	color.Cyan("[INFO] loaded config: server=%s rewards_dir=%s thread=%d", cfg.Server, cfg.RewardsDir, cfg.Thread)

	coord, err := miner.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize miner: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	color.Green("[INFO] starting miner, press ctrl+c to stop")
	if err := coord.Run(ctx); err != nil {
		return fmt.Errorf("run miner: %w", err)
	}
	color.Yellow("[INFO] shut down cleanly")
	return nil
}

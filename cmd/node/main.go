package main

import (
	"context"
	"flag"
	"os"

	"github.com/shu8h0-null/minledger/core"
	"github.com/shu8h0-null/minledger/core/config"
	"github.com/shu8h0-null/minledger/core/logger"
)

var log = logger.NewLogger()

func main() {
	configPath := flag.String("config", config.ConfigPath(), "Path of the YAML config file")
	addr := flag.String("addr", "", "Address the RPC server listens on (overrides config)")
	minerMode := flag.Bool("mine", false, "Whether the node mines blocks")
	rewardAddr := flag.String("reward-address", "", "Address credited with mining rewards")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Errorf("Error loading config: %v", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Node.Addr = *addr
	}
	if *minerMode {
		cfg.Node.Mine = true
	}
	if *rewardAddr != "" {
		cfg.Node.RewardAddress = *rewardAddr
	}

	node, err := core.InitNode(cfg)
	if err != nil {
		log.Errorf("Error initialising node: %v", err)
		os.Exit(1)
	}

	log.Info("Starting ledger node...")
	if err := node.Run(context.Background()); err != nil {
		log.Errorf("Node stopped with error: %v", err)
		os.Exit(1)
	}
}

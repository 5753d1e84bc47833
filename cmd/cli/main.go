package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/shu8h0-null/minledger/core/blockchain"
	"github.com/shu8h0-null/minledger/core/logger"
	"github.com/shu8h0-null/minledger/core/rpc"
	"github.com/shu8h0-null/minledger/tui"
	"github.com/urfave/cli/v3"
)

var log = logger.NewLogger()

const demoPrivKey = "8b6f7cb3ebcfcb25fbed289d00399012bed7157c58699f6f2412afc32f953b22"

// withClient dials the node named by the --node flag for the duration of fn.
func withClient(ctx context.Context, cmd *cli.Command, fn func(*rpc.Client) error) error {
	client, closer, err := rpc.Dial(ctx, cmd.String("node"))
	if err != nil {
		return fmt.Errorf("Error connecting to node: %w", err)
	}
	defer closer()
	return fn(client)
}

func printBlock(cmd *cli.Command, b *blockchain.Block) {
	if cmd.Bool("raw") {
		spew.Dump(b)
		return
	}
	fmt.Println(renderBlock(b))
}

func main() {
	cmd := &cli.Command{
		Name:  "minledger",
		Usage: "query a ledger node or run the local demo",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "node",
				Value: "http://localhost:8080" + rpc.Path,
				Usage: "JSON-RPC endpoint of the node",
			},
			&cli.BoolFlag{
				Name:  "raw",
				Usage: "dump blocks with go-spew instead of the formatted view",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "block",
				Usage: "get block information",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "hash",
						Value: "",
						Usage: "hash of the block to query",
					},
					&cli.IntFlag{
						Name:  "index",
						Value: -1,
						Usage: "index of the block to query (latest when both flags are unset)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withClient(ctx, cmd, func(c *rpc.Client) error {
						var (
							b   *blockchain.Block
							err error
						)
						switch {
						case cmd.String("hash") != "":
							b, err = c.BlockByHash(ctx, cmd.String("hash"))
						case cmd.Int("index") != -1:
							if cmd.Int("index") < 0 {
								return fmt.Errorf("invalid index: %d", cmd.Int("index"))
							}
							b, err = c.BlockByIndex(ctx, uint64(cmd.Int("index")))
						default:
							b, err = c.LatestBlock(ctx)
						}
						if err != nil {
							return err
						}
						printBlock(cmd, b)
						return nil
					})
				},
			},
			{
				Name:      "balance",
				Usage:     "replay the chain and print the balance of an address",
				ArgsUsage: "ADDRESS",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					address := cmd.Args().First()
					if address == "" {
						return errors.New("address is required")
					}
					return withClient(ctx, cmd, func(c *rpc.Client) error {
						bal, err := c.Balance(ctx, address)
						if err != nil {
							return err
						}
						fmt.Println(field("balance", strconv.FormatInt(bal, 10)))
						return nil
					})
				},
			},
			{
				Name:      "history",
				Usage:     "list the on-chain transactions of an address",
				ArgsUsage: "ADDRESS",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					address := cmd.Args().First()
					if address == "" {
						return errors.New("address is required")
					}
					return withClient(ctx, cmd, func(c *rpc.Client) error {
						txs, err := c.History(ctx, address)
						if err != nil {
							return err
						}
						if cmd.Bool("raw") {
							spew.Dump(txs)
							return nil
						}
						for i := range txs {
							fmt.Println(field(shortID(txs[i].ID()), txs[i].String()))
						}
						return nil
					})
				},
			},
			{
				Name:  "pending",
				Usage: "list transactions waiting to be mined",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withClient(ctx, cmd, func(c *rpc.Client) error {
						txs, err := c.Pending(ctx)
						if err != nil {
							return err
						}
						for i := range txs {
							fmt.Println(field(fmt.Sprintf("tx %d", i), txs[i].String()))
						}
						return nil
					})
				},
			},
			{
				Name:  "validate",
				Usage: "verify the integrity of the whole chain",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withClient(ctx, cmd, func(c *rpc.Client) error {
						valid, err := c.IsChainValid(ctx)
						if err != nil {
							return err
						}
						fmt.Println(renderValid(valid))
						return nil
					})
				},
			},
			{
				Name:      "mine",
				Usage:     "mine the pending transactions on the node",
				ArgsUsage: "REWARD_ADDRESS",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					reward := cmd.Args().First()
					if reward == "" {
						return errors.New("reward address is required")
					}
					return withClient(ctx, cmd, func(c *rpc.Client) error {
						b, err := c.Mine(ctx, reward)
						if err != nil {
							return err
						}
						printBlock(cmd, b)
						return nil
					})
				},
			},
			{
				Name:  "wallet",
				Usage: "open the interactive wallet for a keypair",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "key",
						Value: "",
						Usage: "hex encoded private key (a new keypair is generated when empty)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					kp, err := walletKeypair(cmd.String("key"))
					if err != nil {
						return err
					}
					return withClient(ctx, cmd, func(c *rpc.Client) error {
						return tui.Run(c, kp)
					})
				},
			},
			{
				Name:  "demo",
				Usage: "sign a transfer, mine twice and print balances on an in-process ledger",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "difficulty",
						Value: blockchain.DefaultDifficulty,
						Usage: "leading zero hex digits required per block",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					difficulty := cmd.Int("difficulty")
					if difficulty <= 0 {
						return fmt.Errorf("invalid difficulty: %d", difficulty)
					}
					return runDemo(ctx, cmd, int(difficulty))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func walletKeypair(privHex string) (*blockchain.Keypair, error) {
	if privHex != "" {
		return blockchain.KeypairFromHex(privHex)
	}
	kp, err := blockchain.NewKeypair()
	if err != nil {
		return nil, err
	}
	log.Infof("Generated new keypair %s, private key: %s", kp.Fingerprint(), kp.PrivateKeyHex())
	return kp, nil
}

func runDemo(ctx context.Context, cmd *cli.Command, difficulty int) error {
	myKey, err := blockchain.KeypairFromHex(demoPrivKey)
	if err != nil {
		return err
	}
	myWalletAddress := myKey.PublicIdentity()

	ledger := blockchain.NewLedger(blockchain.WithDifficulty(difficulty))

	tx := blockchain.NewTransaction(myWalletAddress, "public key goes here", 10)
	if err := tx.Sign(myKey); err != nil {
		return err
	}
	if err := ledger.AddTransaction(tx); err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("Starting the miner..."))
	for _, reward := range []string{myWalletAddress, "other miner"} {
		b, err := ledger.MinePendingTransactions(ctx, reward)
		if err != nil {
			return err
		}
		printBlock(cmd, b)
	}

	fmt.Println(field("wallet", myWalletAddress))
	fmt.Println(field("balance", strconv.FormatInt(ledger.BalanceOf(myWalletAddress), 10)))
	fmt.Println(renderValid(ledger.IsChainValid()))
	return nil
}

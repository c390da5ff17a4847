// Command emeraldd runs the application side of the consensus node:
// it bootstraps state, dials the execution client's Engine-API, and
// serves the consensus message dispatch loop (§1, §6). Structured as
// a spf13/cobra app, grounded on the pack's own node-CLI convention
// (cmd/lightchain-cli, cmd/empower1d's cli package) rather than
// go-ethereum's own urfave/cli, since nothing in this retrieval slice
// exercises the latter — see DESIGN.md.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	gethengine "github.com/ethereum/go-ethereum/beacon/engine"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/autonity/emerald/bootstrap"
	"github.com/autonity/emerald/config"
	"github.com/autonity/emerald/engine"
	"github.com/autonity/emerald/handler"
	"github.com/autonity/emerald/internal/log"
	"github.com/autonity/emerald/signing"
	"github.com/autonity/emerald/store"
	"github.com/autonity/emerald/types"
	"github.com/autonity/emerald/validators"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "emeraldd",
		Short: "Application node driving an Ethereum execution client via the Engine API",
		RunE:  runAction,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the TOML config file")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "show-pubkey",
		Short: "Print the validator's public key and address without starting the node",
		RunE:  showPubkeyAction,
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.Defaults, nil
	}
	return config.LoadFile(configPath)
}

func loadSigner(cfg config.Config) (signing.Signer, error) {
	keyBytes, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("emeraldd: read private key %s: %w", cfg.PrivateKeyPath, err)
	}
	return signing.NewSigner(string(keyBytes))
}

// showPubkeyAction supplements the spec with the original
// implementation's show-pubkey CLI (cli/src/cmd/show_pubkey.rs),
// printing the validator's uncompressed public key and derived
// address without starting the node.
func showPubkeyAction(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	signer, err := loadSigner(cfg)
	if err != nil {
		return err
	}
	fmt.Printf("public_key: 0x%x\n", signer.PublicKey())
	fmt.Printf("address: %s\n", signer.Address())
	return nil
}

func runAction(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	root := context.Background()

	signer, err := loadSigner(cfg)
	if err != nil {
		return err
	}

	jwtSecret, err := engine.NewJWTSecretFromFile(cfg.JWTTokenPath)
	if err != nil {
		return err
	}

	engineClient, err := engine.Dial(root, cfg.EngineAuthRPCAddress, jwtSecret, cfg.RetryConfig)
	if err != nil {
		return err
	}
	defer engineClient.Close()

	db, err := store.Open(cfg.StoreDir())
	if err != nil {
		return err
	}
	defer db.Close()

	caller, err := newRPCCaller(root, cfg.ExecutionAuthRPCAddress)
	if err != nil {
		return err
	}
	validatorReader := validators.NewReader(caller)

	genesisBytes, err := os.ReadFile(cfg.GenesisPath)
	if err != nil {
		return fmt.Errorf("emeraldd: read genesis %s: %w", cfg.GenesisPath, err)
	}
	genesisSet, err := validators.ParseGenesis(genesisBytes)
	if err != nil {
		return err
	}

	headNumber, headHash, err := caller.head(root)
	if err != nil {
		return fmt.Errorf("emeraldd: read execution head: %w", err)
	}

	boot := bootstrap.New(db, bootstrapEngineAdapter{engineClient}, validatorReader, handler.DecodePayload)
	result, err := boot.Run(root, bootstrap.Genesis{ValidatorSet: genesisSet}, headNumber, headHash)
	if err != nil {
		return err
	}

	inbox := handler.NewInbox(8)
	netOut := make(chan types.StreamMessage, 64)
	go func() {
		for msg := range netOut {
			log.Debug("publishing proposal part", "stream_id", msg.StreamID, "sequence", msg.Sequence)
		}
	}()
	outbox := handler.NewChannelOutbox(netOut)
	retainBlocks := cfg.MaxRetainBlocks
	if cfg.ELNodeType == config.NodeTypeArchive {
		retainBlocks = 0 // an archive node never prunes
	}
	h, err := handler.New(inbox, db, engineClient, outbox, validatorReader, signer, handler.Config{
		FeeRecipient:        cfg.FeeRecipient,
		MinBlockTime:        cfg.MinBlockTime,
		RetainBlocks:        retainBlocks,
		ValidationCacheSize: cfg.ValidationCacheSize,
	}, result.StartHeight, result.ValidatorSet, result.LatestBlock)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(root)
	defer cancel()

	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	go func() {
		for range sighup {
			secret, err := engine.NewJWTSecretFromFile(cfg.JWTTokenPath)
			if err != nil {
				log.Error("failed to reload jwt secret", "err", err)
				continue
			}
			engineClient.ReloadJWTSecret(secret)
			log.Info("reloaded jwt secret")
		}
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-interrupt
		cancel()
	}()

	log.Info("emeraldd starting", "start_height", result.StartHeight)
	h.Run(runCtx)
	return nil
}

// bootstrapEngineAdapter narrows *engine.Client's richer return types
// down to bootstrap.EngineClient's interface boundary.
type bootstrapEngineAdapter struct{ client *engine.Client }

func (a bootstrapEngineAdapter) ExchangeCapabilities(ctx context.Context) error {
	return a.client.ExchangeCapabilities(ctx)
}

func (a bootstrapEngineAdapter) NewPayload(ctx context.Context, payload *gethengine.ExecutableData, blobs []common.Hash, beaconRoot common.Hash) (bootstrap.EngineStatus, error) {
	status, err := a.client.NewPayload(ctx, payload, blobs, beaconRoot)
	return bootstrap.EngineStatus{Status: string(status.Status), LatestValidHash: status.LatestValidHash}, err
}

func (a bootstrapEngineAdapter) ForkchoiceUpdated(ctx context.Context, head common.Hash, attrs *gethengine.PayloadAttributes) (bootstrap.EngineForkchoiceResult, error) {
	fc, err := a.client.ForkchoiceUpdated(ctx, head, attrs)
	return bootstrap.EngineForkchoiceResult{Status: string(fc.Status), LatestValidHash: fc.LatestValidHash}, err
}

// Command badge-node boots a single badgenet node: it brings up the
// radio driver, network core, configuration store, and application
// runtime, registers the menu and built-in apps, and runs until
// interrupted. Grounded on the teacher's examples/common RunDevice
// bootstrap (signal.NotifyContext + Start/Stop), adapted since a Node's
// Start blocks for the node's lifetime rather than returning once
// initialized.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/kcriqui/badgenet/pkg/appruntime"
	"github.com/kcriqui/badgenet/pkg/badge"
	"github.com/kcriqui/badgenet/pkg/config"
	"github.com/kcriqui/badgenet/pkg/crypto"
	"github.com/kcriqui/badgenet/pkg/radio"
	"github.com/pion/logging"
)

func main() {
	var (
		configPath  = flag.String("config", config.DefaultPath, "path to the persisted config store")
		simulated   = flag.Bool("simulated", true, "use an in-process simulated radio instead of real hardware")
		signingName = flag.String("signing-key", "node", "name of the DER keypair under /data to load/generate for CONFIG_OVERRIDE verification")
		dataDir     = flag.String("data-dir", "/data", "directory for persisted config and key files")
	)
	flag.Parse()

	lf := logging.NewDefaultLoggerFactory()
	log0 := lf.NewLogger("badge-node")

	store, err := config.OpenFileStore(*configPath)
	if err != nil {
		log.Fatalf("open config store: %v", err)
	}

	var drv radio.Driver
	if *simulated {
		drv = radio.NewSimDriver(radio.NewLink(), lf)
	} else {
		log.Fatal("real LoRa hardware driver is not wired into this binary; run with -simulated")
	}

	verifier, err := loadVerifier(*dataDir, *signingName)
	if err != nil {
		log0.Warnf("signing key unavailable, CONFIG_OVERRIDE application disabled: %v", err)
	}

	node, err := badge.New(badge.Config{
		Radio:         drv,
		HardwareID:    badge.PersistedRandomIDProvider{Path: fmt.Sprintf("%s/hw_id", *dataDir)},
		Store:         store,
		Verifier:      verifier,
		LoggerFactory: lf,
	})
	if err != nil {
		log.Fatalf("create node: %v", err)
	}

	registerApps(node, lf)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() { done <- node.Start(ctx) }()

	<-ctx.Done()
	log0.Info("shutting down")
	if err := node.Stop(); err != nil {
		log0.Warnf("stop: %v", err)
	}
	if err := <-done; err != nil && ctx.Err() == nil {
		log.Fatalf("node exited with error: %v", err)
	}
	if err := store.Flush(); err != nil {
		log0.Warnf("final config flush: %v", err)
	}
}

// loadVerifier loads a persisted public key for CONFIG_OVERRIDE
// signature verification, generating and persisting a fresh keypair if
// none exists yet (spec.md §6 "Persisted state layout").
func loadVerifier(dataDir, name string) (crypto.Verifier, error) {
	pubPath := crypto.PublicKeyPath(dataDir, name)
	pub, err := crypto.LoadPublicKeyDER(pubPath)
	if err == nil {
		return crypto.NewRSAPSSVerifier(pub), nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}
	key, err := crypto.GenerateRSAPSSKey()
	if err != nil {
		return nil, err
	}
	if err := crypto.SavePrivateKeyDER(crypto.PrivateKeyPath(dataDir, name), key); err != nil {
		return nil, err
	}
	if err := crypto.SavePublicKeyDER(pubPath, &key.PublicKey); err != nil {
		return nil, err
	}
	return crypto.NewRSAPSSVerifier(&key.PublicKey), nil
}

// registerApps wires the primary menu as the node's sole foreground
// slot holder at boot; real deployments register chat/nametag/game apps
// as additional slots (out of scope per spec.md §1's app-internals
// non-goal).
func registerApps(node *badge.Node, lf logging.LoggerFactory) {
	keypad := appruntime.NoopKeypad{}
	menu := appruntime.NewMenu("Menu", keypad, nil, true, lf)
	node.RegisterApp(menu)
}

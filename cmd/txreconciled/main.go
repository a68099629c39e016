// Command txreconciled runs a standalone transaction-reconciliation relay: a
// reconcile.Tracker driven by relay.Loop against a placeholder sketch
// transport, the way cmd/node wires the full spacemesh node together.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/naumenkogs/bitcoin/internal/config"
	"github.com/naumenkogs/bitcoin/log"
	"github.com/naumenkogs/bitcoin/metrics"
	"github.com/naumenkogs/bitcoin/reconcile"
	"github.com/naumenkogs/bitcoin/relay"
)

var cfg = config.DefaultConfig()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "txreconciled",
		Short: "Erlay-style transaction set-reconciliation relay",
		RunE:  run,
	}

	root.PersistentFlags().String("config", "", "path to a TOML config file")
	root.PersistentFlags().DurationVar(&cfg.ReconRequestInterval, "recon-request-interval",
		cfg.ReconRequestInterval, "target revisit interval per peer, split evenly across the reconciliation queue")
	root.PersistentFlags().DurationVar(&cfg.ReconResponseTimeout, "recon-response-timeout",
		cfg.ReconResponseTimeout, "how long a pending request gates a peer's next turn")
	root.PersistentFlags().Float64Var(&cfg.DefaultQ, "default-q",
		cfg.DefaultQ, "default minisketch capacity adjustment factor")
	root.PersistentFlags().Float64Var(&cfg.InboundFanoutDestinationsFraction, "inbound-fanout-fraction",
		cfg.InboundFanoutDestinationsFraction, "fraction of inbound peers chosen as flooding destinations")
	root.PersistentFlags().IntVar(&cfg.OutboundFanoutDestinations, "outbound-fanout-destinations",
		cfg.OutboundFanoutDestinations, "number of outbound peers chosen as flooding destinations")
	root.PersistentFlags().DurationVar(&cfg.ScanInterval, "scan-interval",
		cfg.ScanInterval, "how often the relay loop polls for a due peer")
	root.PersistentFlags().Uint32Var(&cfg.ProtocolVersion, "protocol-version",
		cfg.ProtocolVersion, "locally supported transaction reconciliation protocol version")
	root.PersistentFlags().BoolVar(&cfg.CollectMetrics, "metrics",
		cfg.CollectMetrics, "collect prometheus metrics")
	root.PersistentFlags().IntVar(&cfg.MetricsPort, "metrics-port",
		cfg.MetricsPort, "metrics server port")
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level",
		cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := viper.BindPFlags(root.PersistentFlags()); err != nil {
		fmt.Fprintln(os.Stderr, "failed to bind flags:", err)
	}
	return root
}

func run(cmd *cobra.Command, _ []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	loaded, err := config.Parse(configFile)
	if err != nil {
		return log.ErrMalformedConfig(err)
	}
	// A flag the user actually passed wins over the config file; anything
	// left at its flag default is instead taken from the loaded file.
	applyLoaded := func(flag string, set func()) {
		if !cmd.Flags().Changed(flag) {
			set()
		}
	}
	applyLoaded("recon-request-interval", func() { cfg.ReconRequestInterval = loaded.ReconRequestInterval })
	applyLoaded("recon-response-timeout", func() { cfg.ReconResponseTimeout = loaded.ReconResponseTimeout })
	applyLoaded("default-q", func() { cfg.DefaultQ = loaded.DefaultQ })
	applyLoaded("inbound-fanout-fraction", func() { cfg.InboundFanoutDestinationsFraction = loaded.InboundFanoutDestinationsFraction })
	applyLoaded("outbound-fanout-destinations", func() { cfg.OutboundFanoutDestinations = loaded.OutboundFanoutDestinations })
	applyLoaded("scan-interval", func() { cfg.ScanInterval = loaded.ScanInterval })
	applyLoaded("protocol-version", func() { cfg.ProtocolVersion = loaded.ProtocolVersion })
	applyLoaded("metrics", func() { cfg.CollectMetrics = loaded.CollectMetrics })
	applyLoaded("metrics-port", func() { cfg.MetricsPort = loaded.MetricsPort })
	applyLoaded("log-level", func() { cfg.LogLevel = loaded.LogLevel })

	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return log.ErrBadFlags(err)
	}
	logger := log.NewWithLevel("txreconciled", level)
	log.SetupGlobal(logger)

	if cfg.CollectMetrics {
		metrics.StartCollectingMetrics(cfg.MetricsPort)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt)
	go func() {
		<-signalChan
		logger.Info("received interrupt, stopping")
		cancel()
	}()

	tracker := reconcile.New(relay.CryptoRandSource{}, cfg.ProtocolVersion,
		reconcile.WithReconRequestInterval(cfg.ReconRequestInterval),
		reconcile.WithReconResponseTimeout(cfg.ReconResponseTimeout),
		reconcile.WithDefaultQ(cfg.DefaultQ),
		reconcile.WithInboundFanoutDestinationsFraction(cfg.InboundFanoutDestinationsFraction),
		reconcile.WithOutboundFanoutDestinations(cfg.OutboundFanoutDestinations),
	)
	directory := &emptyDirectory{}
	sketch := &loggingSketch{logger: logger}

	loop := relay.New(tracker, sketch, directory,
		relay.WithLogger(logger),
		relay.WithScanInterval(cfg.ScanInterval),
	)

	logger.Info("starting txreconciled relay loop")
	if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("relay loop: %w", err)
	}
	return nil
}

// emptyDirectory is the placeholder PeerDirectory for the standalone binary:
// real deployments supply one backed by an actual P2P peer manager.
type emptyDirectory struct{}

func (emptyDirectory) InitiatorPeers() []reconcile.PeerID  { return nil }
func (emptyDirectory) RegisteredPeers() []reconcile.PeerID { return nil }

// loggingSketch is a placeholder SketchEncoder: building and transmitting
// actual minisketch payloads is out of scope (SPEC_FULL.md §1), so this just
// logs what would have been sent.
type loggingSketch struct {
	logger log.Log
}

func (s *loggingSketch) SendRequest(_ context.Context, peerID reconcile.PeerID, req reconcile.ReconciliationRequest) error {
	s.logger.With().Debug("would send reconciliation request",
		log.PeerID(int64(peerID)), log.Int("local_set_size", req.LocalSetSize))
	return nil
}

func (s *loggingSketch) Announce(_ context.Context, peerID reconcile.PeerID, txs []reconcile.Wtxid) error {
	s.logger.With().Debug("would flood transactions", log.PeerID(int64(peerID)), log.Int("count", len(txs)))
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

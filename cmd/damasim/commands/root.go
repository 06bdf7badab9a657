// Package commands implements damasim's cobra command tree, in the
// manner of dantte-lp/gobfd's cmd/gobfdctl/commands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/heistp/damawijk/dama"
	"github.com/heistp/damawijk/internal/config"
	"github.com/heistp/damawijk/internal/metrics"
	"github.com/heistp/damawijk/internal/simhost"
	"github.com/heistp/damawijk/noordwijk"
	"github.com/heistp/damawijk/simclock"
)

var (
	configPath string
	durationS  float64
	bulkBytes  int
)

var rootCmd = &cobra.Command{
	Use:   "damasim",
	Short: "Runs a DAMA/R-ALOHA + TCP-Noordwijk scenario against the reference scheduler",
	Long: "damasim builds a ring of nodes on a shared broadcast channel arbitrated by\n" +
		"slotted R-ALOHA, drives a bulk transfer between each node and its ring\n" +
		"neighbor under TCP-Noordwijk congestion control, runs it against the\n" +
		"reference simclock.Engine, and prints a per-node summary.",
	RunE:          runScenario,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path to scenario config (YAML); built-in defaults are used if omitted")
	rootCmd.PersistentFlags().Float64Var(&durationS, "duration", 30,
		"simulated duration to run, in seconds")
	rootCmd.PersistentFlags().IntVar(&bulkBytes, "bulk-bytes", 1<<20,
		"bytes each node bulk-sends to its ring neighbor")
}

// Execute runs the root command, exiting the process on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type simNode struct {
	addr dama.Address
	dev  *dama.NetDevice
	ctrl *dama.RAlohaController
	host *simhost.Host
	cc   *noordwijk.CongestionControl
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := log.Default()
	if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(lvl)
	}

	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	if cfg.Metrics.Addr != "" {
		stop := serveMetrics(cfg.Metrics, reg, logger)
		defer stop()
	}

	sched := simclock.NewEngine(cfg.SeedRNG)
	channel := dama.NewSimpleBroadcastChannel(sched, simclock.FromMilliseconds(cfg.Channel.PropagationMS))
	tdmaCfg := dama.TdmaConfig{
		SlotTime:       simclock.FromMilliseconds(cfg.RAloha.SlotTimeMS),
		GuardTime:      simclock.FromMilliseconds(cfg.RAloha.GuardTimeMS),
		InterFrameTime: simclock.FromMilliseconds(cfg.RAloha.InterFrameMS),
		NumSlots:       cfg.RAloha.NumSlots,
	}

	ccCfg := noordwijk.DefaultConfig()
	ccCfg.DefaultBurstSize = cfg.Noordwijk.DefaultBurstSize
	ccCfg.DefaultTxTimer = simclock.FromMilliseconds(cfg.Noordwijk.DefaultTxTimerMS)
	ccCfg.B = simclock.FromMilliseconds(cfg.Noordwijk.BMS)
	ccCfg.S = cfg.Noordwijk.S
	ccCfg.MaxTxTimer = simclock.FromMilliseconds(cfg.Noordwijk.MaxTxTimerMS)

	logger.Info("tdma timing", "slot_time", cfg.RAloha.SlotTime())

	nodes := make([]*simNode, cfg.Nodes)
	for i := range nodes {
		label := fmt.Sprintf("%d", i)
		addr := dama.DefaultAllocator.Allocate()
		mac := dama.NewSimpleBroadcastMac(sched, addr, cfg.Mac.MaxPacketNumber)
		mac.SetChannel(channel)
		mac.Trace().RxDrop = func(f dama.Frame) { collector.IncQueueDrop(label) }
		ctrl := dama.NewRAlohaController(sched, mac, tdmaCfg)
		dev := dama.NewNetDevice(mac, ctrl)
		nodes[i] = &simNode{addr: addr, dev: dev, ctrl: ctrl}
	}
	logger.Debug("controller frame period", "frame_period_ms", nodes[0].ctrl.FramePeriod().Milliseconds())
	for i, n := range nodes {
		if err := n.ctrl.Start(); err != nil {
			return fmt.Errorf("start node %d controller: %w", i, err)
		}
	}

	// Every node bulk-sends to its ring neighbor, so each node is both a
	// sender and a receiver and the shared channel sees contention from
	// more than one direction (spec.md §7's scenarios assume contending
	// peers, not an isolated sender/receiver pair).
	for i, n := range nodes {
		label := fmt.Sprintf("%d", i)
		peer := nodes[(i+1)%len(nodes)].addr
		n.host = simhost.New(sched, n.dev, peer, 1000, bulkBytes)
		n.host.OnDeliver = func(bytes int) { collector.IncDelivery(label) }
		n.host.OnRetransmit = func() { collector.IncRetransmission(label) }
		n.cc = noordwijk.New(sched, n.host, ccCfg)
		n.host.Attach(n.cc)
		n.cc.Logger = logger.With("node", label)

		trace := n.ctrl.Trace()
		trace.Collision = func(slot int) { collector.IncCollision(label) }
		trace.SlotReserved = func(slot int) { collector.IncSlotReservation(label) }
		n.dev.RegisterPromiscReceiveCallback(func(payload []byte, from, to dama.Address, protocol uint16) {})
	}
	for _, n := range nodes {
		n.cc.SendPendingData(false)
	}

	deadline := simclock.FromMilliseconds(int64(durationS * 1000))
	sched.RunUntil(deadline)

	logger.Info("scenario complete", "nodes", len(nodes), "duration_s", durationS)
	for i, n := range nodes {
		label := fmt.Sprintf("%d", i)
		collector.SetBurstSize(label, n.cc.BurstSize())
		collector.SetTxTimerMS(label, n.cc.TxTimer().Milliseconds())
		logger.Info("node summary",
			"node", label,
			"address", n.addr.String(),
			"delivered_bytes", n.host.Delivered,
			"burst_size", n.cc.BurstSize(),
			"tx_timer_ms", n.cc.TxTimer().Milliseconds(),
			"min_rtt_ms", n.cc.MinRTT().Milliseconds(),
		)
	}
	return nil
}

// serveMetrics starts the Prometheus HTTP endpoint in the background and
// returns a func that shuts it down.
func serveMetrics(cfg config.MetricsConfig, reg *prometheus.Registry, logger *log.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server stopped", "error", err)
		}
	}()
	logger.Info("metrics server listening", "addr", cfg.Addr, "path", cfg.Path)
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("metrics server shutdown error", "error", err)
		}
	}
}

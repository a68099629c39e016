package relay

import (
	"context"
	"encoding/hex"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/naumenkogs/bitcoin/log"
	"github.com/naumenkogs/bitcoin/metrics"
	"github.com/naumenkogs/bitcoin/reconcile"
)

// ErrNoSuchPeer is logged when a caller references a peer the tracker does
// not know about: a PeerDirectory entry for a peer that was never
// registered, or was registered and then forgotten.
var ErrNoSuchPeer = errors.New("relay: peer not registered")

// Option configures a Loop.
type Option func(l *Loop)

// WithClock overrides the wall clock used for scheduling. Tests inject
// clockwork.NewFakeClock to drive the loop deterministically.
func WithClock(clock clockwork.Clock) Option {
	return func(l *Loop) { l.clock = clock }
}

// WithLogger sets the logger used by the loop.
func WithLogger(logger log.Log) Option {
	return func(l *Loop) { l.logger = logger }
}

// WithScanInterval sets how often the loop polls the peer directory for a
// peer whose turn has come up, independently of RECON_REQUEST_INTERVAL which
// governs the gap between any two peers' turns.
func WithScanInterval(d time.Duration) Option {
	return func(l *Loop) { l.scanInterval = d }
}

// Loop drives a reconcile.Tracker against real peers and a real clock. It is
// the ambient counterpart of multipeer.MultiPeerReconciler: the tracker
// itself stays a pure, lockable data structure, and Loop owns the I/O,
// scheduling, and logging that the tracker never performs.
type Loop struct {
	tracker *reconcile.Tracker
	sketch  SketchEncoder
	peers   PeerDirectory

	clock        clockwork.Clock
	logger       log.Log
	scanInterval time.Duration
}

// New builds a Loop around the given tracker, sketch transport, and peer
// directory. Sensible defaults are used for anything not overridden by opts.
func New(tracker *reconcile.Tracker, sketch SketchEncoder, peers PeerDirectory, opts ...Option) *Loop {
	l := &Loop{
		tracker:      tracker,
		sketch:       sketch,
		peers:        peers,
		clock:        clockwork.NewRealClock(),
		logger:       log.NewNop(),
		scanInterval: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Register completes the handshake for peerID against the tracker, the way
// a transport's incoming/outgoing offer handler would, and records the
// outcome: a registration_results_total counter bump for every outcome, and
// — on success — a refresh of the registered/fanout peer gauges.
func (l *Loop) Register(
	peerID reconcile.PeerID,
	isInbound bool,
	reconRequestor, reconResponder bool,
	version uint32,
	remoteSalt uint64,
) reconcile.Result {
	result := l.tracker.EnableReconciliationSupport(peerID, isInbound, reconRequestor, reconResponder, version, remoteSalt)
	metrics.RegistrationResults.WithLabelValues(result.String()).Inc()

	if result != reconcile.ResultSuccess {
		l.logger.With().Warning("peer registration failed",
			log.PeerID(int64(peerID)), log.String("result", result.String()))
		return result
	}

	l.logger.With().Debug("peer registered", log.PeerID(int64(peerID)), log.Phase(reconcile.Registered))
	l.refreshPeerGauges()
	return result
}

// refreshPeerGauges recomputes the registered_peers and fanout_peers gauges
// from scratch by walking the peer directory. Called after each successful
// Register; cheap relative to the RECON_REQUEST_INTERVAL/scan cadence this
// runs at.
func (l *Loop) refreshPeerGauges() {
	var registered, fanout struct{ inbound, outbound int }
	for _, peerID := range l.peers.RegisteredPeers() {
		isInbound, ok := l.tracker.PeerDirection(peerID)
		if !ok {
			continue
		}
		if isInbound {
			registered.inbound++
		} else {
			registered.outbound++
		}
		if chosen, ok := l.tracker.IsPeerChosenForFlooding(peerID); ok && chosen {
			if isInbound {
				fanout.inbound++
			} else {
				fanout.outbound++
			}
		}
	}
	metrics.RegisteredPeers.WithLabelValues("inbound").Set(float64(registered.inbound))
	metrics.RegisteredPeers.WithLabelValues("outbound").Set(float64(registered.outbound))
	metrics.FanoutPeers.WithLabelValues("inbound").Set(float64(fanout.inbound))
	metrics.FanoutPeers.WithLabelValues("outbound").Set(float64(fanout.outbound))
}

// Run polls the peer directory every scanInterval and, for each initiator
// peer whose turn has come up, sends a reconciliation request. It blocks
// until ctx is canceled.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.tick(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.clock.After(l.scanInterval):
		}
	}
}

func (l *Loop) tick(ctx context.Context) {
	now := l.clock.Now()
	timeout := l.tracker.Params().ReconResponseTimeout
	for _, peerID := range l.peers.InitiatorPeers() {
		if !l.tracker.IsPeerRegistered(peerID) {
			l.logger.With().Warning("initiator peer unknown to tracker",
				log.PeerID(int64(peerID)), log.Err(ErrNoSuchPeer))
			continue
		}
		if elapsed, pending := l.tracker.PendingRequestElapsed(peerID, now); pending && elapsed >= timeout {
			metrics.ReportRoundLatency("timeout", elapsed)
			l.logger.With().Warning("reconciliation round timed out",
				log.PeerID(int64(peerID)), log.Duration("elapsed", elapsed))
		}
		if !l.tracker.IsPeerNextToReconcileWith(peerID, now) {
			continue
		}
		req, ok := l.tracker.InitiateReconciliationRequest(peerID, now)
		if !ok {
			continue
		}
		if responds, ok := l.tracker.IsPeerResponder(peerID); ok && !responds {
			l.logger.With().Warning("initiating peer is not expected to respond",
				log.PeerID(int64(peerID)))
		}
		if err := l.sketch.SendRequest(ctx, peerID, req); err != nil {
			l.logger.With().Warning("failed to send reconciliation request",
				log.PeerID(int64(peerID)), log.Err(err))
			continue
		}
		l.logger.With().Debug("sent reconciliation request", log.PeerID(int64(peerID)))
	}
}

// AnnounceTransactions stores txs for every registered peer and immediately
// floods them to whichever peers StoreTxsToAnnounce chose for fanout,
// dispatching concurrently via the sketch transport's Announce method — one
// goroutine per peer, the same pattern multipeer.fullSync uses to sync many
// peers at once without letting one slow peer block the rest.
func (l *Loop) AnnounceTransactions(ctx context.Context, txs []reconcile.Wtxid, hasher reconcile.ShortIDHasher, counts reconcile.NonReconcilingCounts) error {
	if len(txs) == 0 {
		return nil
	}
	var eg errgroup.Group
	for _, peerID := range l.peers.RegisteredPeers() {
		peerID := peerID
		if !l.tracker.IsPeerRegistered(peerID) {
			l.logger.With().Warning("announce target unknown to tracker",
				log.PeerID(int64(peerID)), log.Err(ErrNoSuchPeer))
			continue
		}
		flooded := l.tracker.StoreTxsToAnnounce(peerID, txs, hasher, counts)
		metrics.AnnouncedTransactions.WithLabelValues().Add(float64(len(txs) - len(flooded)))
		if len(flooded) == 0 {
			continue
		}
		metrics.FloodedTransactions.WithLabelValues().Add(float64(len(flooded)))
		l.logger.With().Debug("flooding transactions",
			log.PeerID(int64(peerID)), log.Wtxid(wtxidHex(flooded[0])), log.Int("count", len(flooded)))
		eg.Go(func() error {
			if err := l.sketch.Announce(ctx, peerID, flooded); err != nil {
				l.logger.With().Warning("failed to flood transactions",
					log.PeerID(int64(peerID)), log.Err(err))
				return err
			}
			return nil
		})
	}
	return eg.Wait()
}

func wtxidHex(w reconcile.Wtxid) string {
	return hex.EncodeToString(w[:8])
}

// Package metrics exposes the node's prometheus collectors
package metrics

import (
	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
)

const namespace = "ledgerd"

var (
	rollbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "chain",
		Name:      "rollbacks_total",
		Help:      "Finished rollbacks of the canonical chain, by result",
	}, []string{"result"})

	rolledBackBlocks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "chain",
		Name:      "rolled_back_blocks_total",
		Help:      "Canonical blocks removed by rollbacks",
	})

	canonicalHeight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "chain",
		Name:      "canonical_height",
		Help:      "Height of the canonical tip",
	})

	indexStreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "crosschain",
		Name:      "index_stream_requests_total",
		Help:      "Index stream requests served, by whether the header was found",
	}, []string{"found"})

	activeIndexStreams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "crosschain",
		Name:      "active_index_streams",
		Help:      "Index streams currently open",
	})

	indexedParentHeight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "crosschain",
		Name:      "indexed_parent_height",
		Help:      "Height of the last parent chain block indexed, by parent chain id",
	}, []string{"chain_id"})
)

func init() {
	prometheus.MustRegister(
		rollbacks,
		rolledBackBlocks,
		canonicalHeight,
		indexStreamRequests,
		activeIndexStreams,
		indexedParentHeight,
	)
}

// RollbackFinished records the outcome of a rollback
func RollbackFinished(height uint64, failed bool) {
	if failed {
		rollbacks.WithLabelValues("failure").Inc()
		return
	}
	rollbacks.WithLabelValues("success").Inc()
	canonicalHeight.Set(float64(height))
}

// BlocksRolledBack records the number of blocks a rollback removed
func BlocksRolledBack(count int) {
	rolledBackBlocks.Add(float64(count))
}

// SetCanonicalHeight records the height of the canonical tip
func SetCanonicalHeight(height uint64) {
	canonicalHeight.Set(float64(height))
}

// IndexStreamOpened records a new index stream. The returned function must
// be called once the stream closes.
func IndexStreamOpened() (onClose func()) {
	activeIndexStreams.Inc()
	return activeIndexStreams.Dec
}

// IndexStreamRequestServed records an index stream request
func IndexStreamRequestServed(found bool) {
	if found {
		indexStreamRequests.WithLabelValues("true").Inc()
		return
	}
	indexStreamRequests.WithLabelValues("false").Inc()
}

// SetIndexedParentHeight records the last height indexed from a parent chain
func SetIndexedParentHeight(chainID string, height uint64) {
	indexedParentHeight.WithLabelValues(chainID).Set(float64(height))
}

// GRPCServerOptions returns the server options that collect gRPC metrics
func GRPCServerOptions() []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.StreamInterceptor(grpc_prometheus.StreamServerInterceptor),
		grpc.UnaryInterceptor(grpc_prometheus.UnaryServerInterceptor),
	}
}

// RegisterGRPCServer initializes the gRPC metrics of every service
// registered on server
func RegisterGRPCServer(server *grpc.Server) {
	grpc_prometheus.Register(server)
}

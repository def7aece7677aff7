package explorer

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hedisam/fabexplorer/internal/custompromauto"
)

var failedBlockRetrievals = custompromauto.Auto().NewCounter(prometheus.CounterOpts{
	Namespace: custompromauto.Namespace,
	Name:      "failed_block_retrievals_total",
	Help:      "Number of blocks that could not be fetched or decoded and were recorded as placeholders",
})

var retrievedBlocks = custompromauto.Auto().NewCounter(prometheus.CounterOpts{
	Namespace: custompromauto.Namespace,
	Name:      "block_retrievals_total",
	Help:      "Number of successful block retrievals",
})

var streamedBlocks = custompromauto.Auto().NewCounter(prometheus.CounterOpts{
	Namespace: custompromauto.Namespace,
	Name:      "streamed_blocks_total",
	Help:      "Number of blocks emitted by enumeration streams",
})

var envelopeDecodeErrors = custompromauto.Auto().NewCounter(prometheus.CounterOpts{
	Namespace: custompromauto.Namespace,
	Name:      "envelope_decode_errors_total",
	Help:      "Number of envelopes that failed to decode inside otherwise readable blocks",
})

var failedChainInfoQueries = custompromauto.Auto().NewCounter(prometheus.CounterOpts{
	Namespace: custompromauto.Namespace,
	Name:      "failed_chain_info_queries_total",
	Help:      "Number of failed chain info queries",
})

var blockCacheHits = custompromauto.Auto().NewCounter(prometheus.CounterOpts{
	Namespace: custompromauto.Namespace,
	Name:      "block_cache_hits_total",
	Help:      "Number of blocks served from the block cache",
})

var blockCacheMisses = custompromauto.Auto().NewCounter(prometheus.CounterOpts{
	Namespace: custompromauto.Namespace,
	Name:      "block_cache_misses_total",
	Help:      "Number of block cache lookups that fell through to the query service",
})

var chainHeight = custompromauto.Auto().NewGauge(prometheus.GaugeOpts{
	Namespace: custompromauto.Namespace,
	Name:      "chain_height",
	Help:      "Last observed chain height",
})

package fabexplorer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedisam/fabexplorer/internal/config"
	"github.com/hedisam/fabexplorer/internal/explorer"
	"github.com/hedisam/fabexplorer/internal/ledger"
	"github.com/hedisam/fabexplorer/internal/ledger/ledgertest"
	"github.com/hedisam/fabexplorer/internal/projection"
	"github.com/hedisam/fabexplorer/internal/qscc"
	"github.com/hedisam/fabexplorer/internal/qscc/mocks"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testConfig() *config.Config {
	return &config.Config{
		Fabric: config.FabricConfig{
			Channel:    ledgertest.Channel,
			Orgs:       []string{"org1", "org2"},
			DefaultOrg: "org1",
			MSPIDs:     map[string]string{"org1": "Org1MSP", "org2": "Org2MSP"},
		},
		Explorer: config.ExplorerConfig{
			Concurrency:  4,
			PollInterval: time.Second,
		},
		Cache: config.CacheConfig{Mode: config.CacheNone},
	}
}

func TestOrgExplorers(t *testing.T) {
	logger := quietLogger()
	cfg := testConfig()
	chainInfo := ledgertest.ChainInfo(t, 5)

	var dials atomic.Int32
	sessions := qscc.NewSessions(logger, qscc.Config{}, qscc.WithDialer(func(org string) (*qscc.Session, error) {
		dials.Add(1)
		if org == "org2" {
			return nil, fmt.Errorf("%w: wallet directory not found", explorer.ErrServiceUnavailable)
		}
		contract := &mocks.ContractMock{
			EvaluateTransactionFunc: func(name string, args ...string) ([]byte, error) {
				return chainInfo, nil
			},
		}
		return qscc.NewSession(logger, org, contract, nil), nil
	}))
	defer sessions.Close()
	p := newOrgExplorers(logger, cfg, sessions, nil)

	first, err := p.Explorer("org1")
	require.NoError(t, err)
	second, err := p.Explorer("org1")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), dials.Load())

	stats, err := first.GetStats(context.Background())
	require.NoError(t, err)
	mspID, ok := stats.(projection.Object).Get("mspId")
	require.True(t, ok)
	assert.Equal(t, "Org1MSP", mspID)

	_, err = p.Explorer("org2")
	require.ErrorIs(t, err, explorer.ErrServiceUnavailable)
	_, err = p.Explorer("org2")
	require.Error(t, err)
	assert.Equal(t, int32(3), dials.Load(), "failed dials are retried")
}

func TestOrgExplorersServeConnectedOrgsDuringSlowDial(t *testing.T) {
	logger := quietLogger()
	started := make(chan struct{})
	release := make(chan struct{})
	sessions := qscc.NewSessions(logger, qscc.Config{}, qscc.WithDialer(func(org string) (*qscc.Session, error) {
		if org == "org2" {
			close(started)
			<-release
		}
		return qscc.NewSession(logger, org, &mocks.ContractMock{}, nil), nil
	}))
	defer sessions.Close()
	p := newOrgExplorers(logger, testConfig(), sessions, nil)

	org1, err := p.get("org1")
	require.NoError(t, err)

	slow := make(chan *explorer.Explorer, 1)
	go func() {
		e, err := p.get("org2")
		assert.NoError(t, err)
		slow <- e
	}()
	<-started

	done := make(chan *explorer.Explorer, 1)
	go func() {
		e, _ := p.get("org1")
		done <- e
	}()
	select {
	case e := <-done:
		assert.Same(t, org1, e)
	case <-time.After(time.Second):
		close(release)
		t.Fatal("org1 was blocked behind the org2 dial")
	}

	close(release)
	org2 := <-slow
	require.NotNil(t, org2)
	assert.NotSame(t, org1, org2)
}

func TestOpenBlockCache(t *testing.T) {
	tests := map[string]struct {
		cfg           config.CacheConfig
		expectedCache bool
	}{
		"none": {
			cfg: config.CacheConfig{Mode: config.CacheNone},
		},
		"memory": {
			cfg:           config.CacheConfig{Mode: config.CacheMemory, MemSize: 16, LifeWindow: time.Minute, MaxSizeMB: 1},
			expectedCache: true,
		},
		"unreachable redis": {
			cfg: config.CacheConfig{Mode: config.CacheRedis, RedisAddr: "127.0.0.1:1"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			cache, closeCache := openBlockCache(context.Background(), quietLogger(), test.cfg)
			defer func() {
				assert.NoError(t, closeCache())
			}()
			if test.expectedCache {
				assert.NotNil(t, cache)
				return
			}
			assert.Nil(t, cache)
		})
	}
}

func TestResolveOrg(t *testing.T) {
	cfg = testConfig()

	org, err := resolveOrg("")
	require.NoError(t, err)
	assert.Equal(t, "org1", org)

	org, err = resolveOrg("org2")
	require.NoError(t, err)
	assert.Equal(t, "org2", org)

	_, err = resolveOrg("org3")
	assert.Error(t, err)
}

func blockResults(t *testing.T) <-chan *explorer.BlockResult {
	t.Helper()
	decoded, err := ledger.DecodeBlock(ledgertest.Block(t, 2, ledgertest.EndorserTx(t, "tx-a"), ledgertest.EndorserTx(t, "tx-b")))
	require.NoError(t, err)

	ch := make(chan *explorer.BlockResult, 2)
	ch <- &explorer.BlockResult{Number: 1, Err: errors.New("malformed block")}
	ch <- &explorer.BlockResult{Number: 2, Block: decoded}
	close(ch)
	return ch
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m))
		lines = append(lines, m)
	}
	require.NoError(t, scanner.Err())
	return lines
}

func TestExporterBlocks(t *testing.T) {
	var buf bytes.Buffer
	exp := &exporter{logger: quietLogger(), enc: json.NewEncoder(&buf), from: 1}

	require.NoError(t, exp.blocks(blockResults(t)))
	assert.Equal(t, 2, exp.attempted)
	assert.Equal(t, 1, exp.failed)
	assert.Equal(t, 2, exp.written)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, map[string]any{"number": float64(1), "error": "malformed block"}, lines[0])
	header, ok := lines[1]["header"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), header["number"])
}

func TestExporterTransactions(t *testing.T) {
	var buf bytes.Buffer
	exp := &exporter{logger: quietLogger(), enc: json.NewEncoder(&buf), from: 1}

	require.NoError(t, exp.transactions(blockResults(t)))
	assert.Equal(t, 3, exp.written)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)
	assert.Equal(t, "malformed block", lines[0]["error"])
	assert.Equal(t, "tx-a", lines[1]["txId"])
	assert.Equal(t, "tx-b", lines[2]["txId"])
	assert.Equal(t, float64(2), lines[2]["blockNumber"])
}

func TestExporterStopsWhenServiceUnavailable(t *testing.T) {
	ch := make(chan *explorer.BlockResult, 1)
	ch <- &explorer.BlockResult{Number: 0, Err: fmt.Errorf("fetch block 0: %w", explorer.ErrServiceUnavailable)}
	close(ch)

	exp := &exporter{logger: quietLogger(), enc: json.NewEncoder(io.Discard)}
	err := exp.blocks(ch)
	assert.ErrorIs(t, err, explorer.ErrServiceUnavailable)
	assert.Zero(t, exp.written)
}

func TestParseBound(t *testing.T) {
	n, err := parseBound("", 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), n)

	n, err = parseBound(strconv.FormatUint(^uint64(0), 10), 0)
	require.NoError(t, err)
	assert.Equal(t, ^uint64(0), n)

	_, err = parseBound("ten", 0)
	assert.Error(t, err)
}

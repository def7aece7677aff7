// Package qscc queries a channel's ledger through the query system chaincode,
// one gateway session per organization.
package qscc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hyperledger/fabric-sdk-go/pkg/common/errors/status"
	"github.com/hyperledger/fabric-sdk-go/pkg/core/config"
	"github.com/hyperledger/fabric-sdk-go/pkg/gateway"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hedisam/fabexplorer/internal/explorer"
)

const (
	ContractName = "qscc"

	// IdentityLabel is the wallet entry every organization's session signs with.
	IdentityLabel = "appUser"

	getChainInfo     = "GetChainInfo"
	getBlockByNumber = "GetBlockByNumber"

	tracerName = "github.com/hedisam/fabexplorer/internal/qscc"
)

// Contract evaluates read-only transactions against a chaincode.
//
//go:generate moq -out mocks/contract.go -pkg mocks -skip-ensure . Contract
type Contract interface {
	EvaluateTransaction(name string, args ...string) ([]byte, error)
}

type Config struct {
	Channel       string
	WalletDir     string
	ConnectionDir string
	Timeout       time.Duration
}

// WalletPath is the file-system wallet of org.
func (c Config) WalletPath(org string) string {
	return filepath.Join(c.WalletDir, org+"User")
}

// ConnectionProfilePath is the connection profile of org.
func (c Config) ConnectionProfilePath(org string) string {
	return filepath.Join(c.ConnectionDir, "connection-"+org+".json")
}

// Session is a connection to the query system chaincode on behalf of one
// organization. It is safe for concurrent use.
type Session struct {
	logger   *logrus.Logger
	org      string
	contract Contract
	closer   func()
	tracer   trace.Tracer
	backoff  func() backoff.BackOff
}

// NewSession wraps an already obtained contract. closer, if not nil, is called by Close.
func NewSession(logger *logrus.Logger, org string, contract Contract, closer func()) *Session {
	return &Session{
		logger:   logger,
		org:      org,
		contract: contract,
		closer:   closer,
		tracer:   otel.Tracer(tracerName),
		backoff: func() backoff.BackOff {
			return newExponentialBackoffConfig()
		},
	}
}

// Connect opens a gateway for org using its wallet identity and connection profile.
func Connect(logger *logrus.Logger, cfg Config, org string) (*Session, error) {
	walletPath := cfg.WalletPath(org)
	if _, err := os.Stat(walletPath); err != nil {
		return nil, fmt.Errorf("%w: wallet directory not found at %s", explorer.ErrServiceUnavailable, walletPath)
	}
	wallet, err := gateway.NewFileSystemWallet(walletPath)
	if err != nil {
		return nil, fmt.Errorf("%w: could not open wallet %s: %w", explorer.ErrServiceUnavailable, walletPath, err)
	}
	if !wallet.Exists(IdentityLabel) {
		labels, _ := wallet.List()
		return nil, fmt.Errorf("%w: identity %q not found in wallet, available: %v", explorer.ErrServiceUnavailable, IdentityLabel, labels)
	}

	profilePath := cfg.ConnectionProfilePath(org)
	if _, err := os.Stat(profilePath); err != nil {
		return nil, fmt.Errorf("%w: connection profile not found at %s", explorer.ErrServiceUnavailable, profilePath)
	}

	var opts []gateway.Option
	if cfg.Timeout > 0 {
		opts = append(opts, gateway.WithTimeout(cfg.Timeout))
	}
	gw, err := gateway.Connect(
		gateway.WithConfig(config.FromFile(filepath.Clean(profilePath))),
		gateway.WithIdentity(wallet, IdentityLabel),
		opts...,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: could not connect gateway for %s: %w", explorer.ErrServiceUnavailable, org, err)
	}

	network, err := gw.GetNetwork(cfg.Channel)
	if err != nil {
		gw.Close()
		return nil, fmt.Errorf("%w: could not join channel %s: %w", explorer.ErrServiceUnavailable, cfg.Channel, err)
	}

	logger.WithFields(logrus.Fields{
		"org":     org,
		"channel": cfg.Channel,
		"wallet":  walletPath,
	}).Info("Connected to gateway")

	return NewSession(logger, org, network.GetContract(ContractName), gw.Close), nil
}

func (s *Session) Org() string {
	return s.org
}

// QueryChainInfo returns a serialized common.BlockchainInfo.
func (s *Session) QueryChainInfo(ctx context.Context, channelID string) ([]byte, error) {
	return s.evaluate(ctx, getChainInfo, channelID)
}

// QueryBlockByNumber returns a serialized common.Block. number is a decimal string.
func (s *Session) QueryBlockByNumber(ctx context.Context, channelID string, number string) ([]byte, error) {
	return s.evaluate(ctx, getBlockByNumber, channelID, number)
}

func (s *Session) Close() {
	if s.closer != nil {
		s.closer()
	}
}

func (s *Session) evaluate(ctx context.Context, fn string, args ...string) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "qscc."+fn, trace.WithAttributes(
		attribute.String("fabric.org", s.org),
		attribute.StringSlice("qscc.args", args),
	))
	defer span.End()

	start := time.Now()
	data, err := backoff.RetryWithData(func() ([]byte, error) {
		data, err := s.evaluateOnce(ctx, fn, args...)
		if err == nil {
			return data, nil
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || !isTransient(err) {
			return nil, backoff.Permanent(err)
		}
		s.logger.WithError(err).WithFields(logrus.Fields{
			"org":      s.org,
			"function": fn,
		}).Warn("Transient qscc failure, retrying...")
		return nil, err
	}, backoff.WithContext(s.backoff(), ctx))
	queryDuration.WithLabelValues(fn).Observe(time.Since(start).Seconds())
	if err != nil {
		failedQueries.WithLabelValues(fn).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, classify(fn, err)
	}

	return data, nil
}

// evaluateOnce makes a single call. The SDK call itself cannot be cancelled, so
// it is abandoned when ctx is done and its result discarded.
func (s *Session) evaluateOnce(ctx context.Context, fn string, args ...string) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}
	resCh := make(chan result, 1)
	go func() {
		data, err := s.contract.EvaluateTransaction(fn, args...)
		resCh <- result{data: data, err: err}
	}()

	select {
	case res := <-resCh:
		return res.data, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func classify(fn string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("evaluate %s: %w", fn, err)
	}
	if isUnavailable(err) || isTransient(err) {
		return fmt.Errorf("%w: evaluate %s: %w", explorer.ErrServiceUnavailable, fn, err)
	}
	return fmt.Errorf("evaluate %s: %w", fn, err)
}

// isUnavailable reports whether err means the peer could not be reached at all.
func isUnavailable(err error) bool {
	s, ok := status.FromError(err)
	if !ok {
		return false
	}
	if s.Group == status.GRPCTransportStatus {
		return true
	}
	return s.Group == status.ClientStatus &&
		(s.Code == status.ConnectionFailed.ToInt32() || s.Code == status.NoPeersFound.ToInt32())
}

// isTransient reports whether retrying the same call may succeed.
func isTransient(err error) bool {
	s, ok := status.FromError(err)
	if !ok {
		return false
	}
	return s.Group == status.ClientStatus &&
		(s.Code == status.Timeout.ToInt32() || s.Code == status.GenericTransient.ToInt32())
}

func newExponentialBackoffConfig() *backoff.ExponentialBackOff {
	return backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(time.Second*3),
		backoff.WithMaxInterval(time.Second),
		backoff.WithInitialInterval(time.Millisecond*100),
		backoff.WithMultiplier(2),
		backoff.WithRandomizationFactor(0.2),
	)
}

package rest

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hedisam/fabexplorer/internal/explorer"
	"github.com/hedisam/fabexplorer/internal/wideint"
)

// Explorer serves the projected ledger views of one organization.
type Explorer interface {
	GetChainInfo(ctx context.Context) (any, error)
	GetStats(ctx context.Context) (any, error)
	GetBlock(ctx context.Context, number uint64) (any, error)
	GetTransactionsForBlock(ctx context.Context, number uint64) (any, error)
	GetAllBlocks(ctx context.Context) (any, error)
	GetBlockRange(ctx context.Context, from, to uint64) (any, error)
	GetAllTransactions(ctx context.Context) (any, error)
	GetTransaction(ctx context.Context, txID string) (any, error)
}

// ExplorerProvider hands out the Explorer of an organization.
type ExplorerProvider interface {
	Explorer(org string) (Explorer, error)
}

type Server struct {
	logger     *logrus.Logger
	provider   ExplorerProvider
	orgs       []string
	defaultOrg string
}

// NewServer creates a server accepting requests on behalf of orgs. Requests
// without an X-Org header use defaultOrg.
func NewServer(logger *logrus.Logger, provider ExplorerProvider, orgs []string, defaultOrg string) *Server {
	return &Server{
		logger:     logger,
		provider:   provider,
		orgs:       orgs,
		defaultOrg: defaultOrg,
	}
}

// Register mounts every API route on mux.
func (s *Server) Register(mux *http.ServeMux) {
	RegisterFunc(s.logger, mux, http.MethodGet, "/api/v1/chain", s.GetChainInfo)
	RegisterFunc(s.logger, mux, http.MethodGet, "/api/v1/stats", s.GetStats)
	RegisterFunc(s.logger, mux, http.MethodGet, "/api/v1/blocks", s.ListBlocks)
	RegisterFunc(s.logger, mux, http.MethodGet, "/api/v1/blocks/{number}", s.GetBlock)
	RegisterFunc(s.logger, mux, http.MethodGet, "/api/v1/blocks/{number}/transactions", s.ListBlockTransactions)
	RegisterFunc(s.logger, mux, http.MethodGet, "/api/v1/transactions", s.ListTransactions)
	RegisterFunc(s.logger, mux, http.MethodGet, "/api/v1/transactions/{txId}", s.GetTransaction)
}

func (s *Server) GetChainInfo(ctx context.Context, req *GetChainInfoRequest) (*Response, error) {
	return s.serve(ctx, req.OrgRequest, nil, func(e Explorer) (any, error) {
		return e.GetChainInfo(ctx)
	})
}

func (s *Server) GetStats(ctx context.Context, req *GetStatsRequest) (*Response, error) {
	return s.serve(ctx, req.OrgRequest, nil, func(e Explorer) (any, error) {
		return e.GetStats(ctx)
	})
}

func (s *Server) ListBlocks(ctx context.Context, req *ListBlocksRequest) (*Response, error) {
	fields := logrus.Fields{"from": req.From, "to": req.To}
	if req.From == "" && req.To == "" {
		return s.serve(ctx, req.OrgRequest, fields, func(e Explorer) (any, error) {
			return e.GetAllBlocks(ctx)
		})
	}

	from, err := parseNumber(req.From, 0)
	if err != nil {
		return nil, NewErrf(http.StatusBadRequest, "Invalid 'from' block number: %s", err)
	}
	to, err := parseNumber(req.To, ^uint64(0))
	if err != nil {
		return nil, NewErrf(http.StatusBadRequest, "Invalid 'to' block number: %s", err)
	}
	return s.serve(ctx, req.OrgRequest, fields, func(e Explorer) (any, error) {
		return e.GetBlockRange(ctx, from, to)
	})
}

func (s *Server) GetBlock(ctx context.Context, req *GetBlockRequest) (*Response, error) {
	number, err := wideint.Normalize(req.Number)
	if err != nil {
		return nil, NewErrf(http.StatusBadRequest, "Invalid block number: %s", err)
	}
	return s.serve(ctx, req.OrgRequest, logrus.Fields{"number": number}, func(e Explorer) (any, error) {
		return e.GetBlock(ctx, number)
	})
}

func (s *Server) ListBlockTransactions(ctx context.Context, req *ListBlockTransactionsRequest) (*Response, error) {
	number, err := wideint.Normalize(req.Number)
	if err != nil {
		return nil, NewErrf(http.StatusBadRequest, "Invalid block number: %s", err)
	}
	return s.serve(ctx, req.OrgRequest, logrus.Fields{"number": number}, func(e Explorer) (any, error) {
		return e.GetTransactionsForBlock(ctx, number)
	})
}

func (s *Server) ListTransactions(ctx context.Context, req *ListTransactionsRequest) (*Response, error) {
	return s.serve(ctx, req.OrgRequest, nil, func(e Explorer) (any, error) {
		return e.GetAllTransactions(ctx)
	})
}

func (s *Server) GetTransaction(ctx context.Context, req *GetTransactionRequest) (*Response, error) {
	txID := strings.TrimSpace(req.TxID)
	if txID == "" {
		return nil, NewErrf(http.StatusBadRequest, "Missing required field: 'txId'")
	}
	return s.serve(ctx, req.OrgRequest, logrus.Fields{"tx_id": txID}, func(e Explorer) (any, error) {
		return e.GetTransaction(ctx, txID)
	})
}

// serve resolves the organization's explorer, runs op with it and maps its
// error onto an HTTP status.
func (s *Server) serve(ctx context.Context, req OrgRequest, fields logrus.Fields, op func(Explorer) (any, error)) (*Response, error) {
	org := strings.TrimSpace(req.Org)
	if org == "" {
		org = s.defaultOrg
	}
	logger := s.logger.WithContext(ctx).WithFields(fields).WithField("org", org)

	if !slices.Contains(s.orgs, org) {
		logger.Warn("Request for an unknown organization")
		return nil, NewErrf(http.StatusBadRequest, "Invalid organization %q. Must be one of %s", org, strings.Join(s.orgs, ", "))
	}

	e, err := s.provider.Explorer(org)
	if err != nil {
		return nil, s.toErr(logger, err)
	}
	data, err := op(e)
	if err != nil {
		return nil, s.toErr(logger, err)
	}

	return &Response{
		Success: true,
		Org:     org,
		Data:    data,
	}, nil
}

func (s *Server) toErr(logger *logrus.Entry, err error) *Err {
	switch {
	case errors.Is(err, wideint.ErrInvalidNumericFormat), errors.Is(err, explorer.ErrInvalidRange):
		logger.WithError(err).Warn("Invalid request")
		return NewErrf(http.StatusBadRequest, "%s", err)
	case errors.Is(err, explorer.ErrNotFound):
		logger.WithError(err).Debug("Not found")
		return NewErrf(http.StatusNotFound, "%s", err)
	case errors.Is(err, explorer.ErrServiceUnavailable):
		logger.WithError(err).Error("Ledger query service unavailable")
		return NewErrf(http.StatusServiceUnavailable, "Ledger query service unavailable, please retry later")
	default:
		logger.WithError(err).Error("Failed to query the ledger")
		return NewErrf(http.StatusInternalServerError, "Could not query the ledger")
	}
}

// parseNumber normalizes a block number given as text. An empty value yields def.
func parseNumber(raw string, def uint64) (uint64, error) {
	if strings.TrimSpace(raw) == "" {
		return def, nil
	}
	return wideint.Normalize(raw)
}

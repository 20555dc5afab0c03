// Package natsstore implements the store gateway over NATS request/reply.
// Each operation is one JSON request to a well-known subject; the store
// service behind the subjects owns the graphs and the snapshot markers.
package natsstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/c360/semschema/errors"
	"github.com/c360/semschema/metric"
	"github.com/c360/semschema/natsclient"
	"github.com/c360/semschema/pkg/retry"
	"github.com/c360/semschema/store"
)

// Request subjects of the store service.
const (
	SubjectReadGraph      = "semschema.store.read_graph"
	SubjectApplyDelta     = "semschema.store.apply_delta"
	SubjectSnapshotMarker = "semschema.store.snapshot_marker"
	SubjectAdvanceMarker  = "semschema.store.advance_marker"
)

// Store is a store.Gateway over NATS request/reply.
type Store struct {
	client   *natsclient.Client
	timeout  time.Duration
	retryCfg errors.RetryConfig
	logger   *slog.Logger
	metrics  *metric.Metrics
}

// Option configures the Store.
type Option func(*Store)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// WithRetry sets the transient-failure retry policy.
func WithRetry(cfg errors.RetryConfig) Option {
	return func(s *Store) { s.retryCfg = cfg }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithMetrics wires request accounting into the metrics registry.
func WithMetrics(m *metric.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// New creates a gateway over an already-configured NATS client.
func New(client *natsclient.Client, opts ...Option) *Store {
	s := &Store{
		client:   client,
		timeout:  10 * time.Second,
		retryCfg: errors.DefaultRetryConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "natsstore")
	return s
}

// Wire envelope types. Every request carries a unique request ID so the
// store service can deduplicate retried deltas.

type readGraphRequest struct {
	RequestID string `json:"request_id"`
	Graph     string `json:"graph"`
}

type readGraphResponse struct {
	Success    bool              `json:"success"`
	Error      string            `json:"error,omitempty"`
	Statements []store.Statement `json:"statements,omitempty"`
}

type applyDeltaRequest struct {
	RequestID string      `json:"request_id"`
	Graph     string      `json:"graph"`
	Delta     store.Delta `json:"delta"`
}

type applyDeltaResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type markerRequest struct {
	RequestID string `json:"request_id"`
	Project   string `json:"project"`
}

type markerResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Marker  string `json:"marker,omitempty"`
}

// ReadGraph returns every statement of the named graph.
func (s *Store) ReadGraph(ctx context.Context, graph string) ([]store.Statement, error) {
	req := readGraphRequest{RequestID: uuid.NewString(), Graph: graph}
	var resp readGraphResponse
	if err := s.roundTrip(ctx, "read_graph", SubjectReadGraph, req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, s.serviceError("ReadGraph", graph, resp.Error)
	}
	statements := resp.Statements
	store.Sort(statements)
	return statements, nil
}

// ApplyDelta applies removals then additions to the named graph. The
// request ID makes a retried delta safe: the service applies each ID at
// most once.
func (s *Store) ApplyDelta(ctx context.Context, graph string, delta store.Delta) error {
	req := applyDeltaRequest{RequestID: uuid.NewString(), Graph: graph, Delta: delta}
	var resp applyDeltaResponse
	if err := s.roundTrip(ctx, "apply_delta", SubjectApplyDelta, req, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return s.serviceError("ApplyDelta", graph, resp.Error)
	}
	return nil
}

// SnapshotMarker returns the project's version token.
func (s *Store) SnapshotMarker(ctx context.Context, project string) (string, error) {
	return s.markerRequest(ctx, "snapshot_marker", SubjectSnapshotMarker, project)
}

// AdvanceMarker moves the project's version token forward.
func (s *Store) AdvanceMarker(ctx context.Context, project string) (string, error) {
	return s.markerRequest(ctx, "advance_marker", SubjectAdvanceMarker, project)
}

func (s *Store) markerRequest(ctx context.Context, op, subject, project string) (string, error) {
	req := markerRequest{RequestID: uuid.NewString(), Project: project}
	var resp markerResponse
	if err := s.roundTrip(ctx, op, subject, req, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		return "", s.serviceError(op, project, resp.Error)
	}
	return resp.Marker, nil
}

// roundTrip sends one JSON request and decodes the reply, retrying
// transient transport failures under the configured policy.
func (s *Store) roundTrip(ctx context.Context, op, subject string, req, resp any) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return errors.WrapInvalid(err, "Store", "roundTrip", "encode request")
	}

	start := time.Now()
	attempt := 0
	data, err := retry.DoWithResult(ctx, s.retryCfg.ToRetryConfig(), func() ([]byte, error) {
		reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		msg, err := s.client.Request(reqCtx, subject, payload)
		if err != nil {
			if !s.retryCfg.ShouldRetry(err, attempt) {
				return nil, retry.NonRetryable(err)
			}
			attempt++
			s.logger.Debug("store request failed, may retry", "op", op, "error", err)
			return nil, err
		}
		return msg.Data, nil
	})
	if s.metrics != nil {
		s.metrics.RecordStoreRTT(op, time.Since(start))
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordStoreRequest(op, "transport_error")
		}
		return errors.WrapTransient(err, "Store", op, "request store service")
	}

	if err := json.Unmarshal(data, resp); err != nil {
		if s.metrics != nil {
			s.metrics.RecordStoreRequest(op, "decode_error")
		}
		return errors.WrapInvalid(err, "Store", op, "decode response")
	}
	if s.metrics != nil {
		s.metrics.RecordStoreRequest(op, "ok")
	}
	return nil
}

// serviceError converts a store-service failure reply into a classified
// error. The service answered, so the transport is fine; the request
// itself was rejected.
func (s *Store) serviceError(op, target, message string) error {
	return errors.WrapInvalid(
		fmt.Errorf("%w: %s", errors.ErrRequestFailed, message),
		"Store", op, fmt.Sprintf("request for %s rejected", target))
}

var _ store.Gateway = (*Store)(nil)

// Package txn wraps multi-document cascades in a MongoDB transaction so
// each cascade is one atomic unit of work. Standalone servers (no
// replica set) cannot run transactions; WithTransaction detects that and
// falls back to executing the cascade sequentially, logging the
// degraded mode once per call.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// WithTransaction runs fn inside a mongo session transaction. If the
// server does not support transactions, fn runs directly against the
// supplied context instead (best-effort sequential application, still
// serialized by the caller's entity locks).
func WithTransaction(ctx context.Context, client *mongo.Client, logger *zap.Logger, fn func(ctx context.Context) error) error {
	session, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			logger.Warn("mongo sessions unavailable, running cascade without transaction", zap.Error(err))
			return fn(ctx)
		}
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		logger.Warn("mongo transactions unavailable, running cascade without transaction", zap.Error(err))
		return fn(ctx)
	}
	return err
}

// Runner adapts WithTransaction to the cascade engine's unit-of-work
// interface.
type Runner struct {
	client *mongo.Client
	log    *zap.Logger
}

// NewRunner returns a Runner that executes each unit of work inside a
// transaction on client.
func NewRunner(client *mongo.Client, logger *zap.Logger) *Runner {
	return &Runner{client: client, log: logger}
}

// InUnit runs fn as one atomic unit of work.
func (r *Runner) InUnit(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, r.client, r.log, fn)
}

// Server error codes that indicate transactions are not available on
// this deployment (standalone mongod, or an operation that cannot run
// inside a multi-document transaction).
var notSupportedCodes = map[int32]bool{
	20:  true, // IllegalOperation: transaction numbers require a replica set
	51:  true, // illegal operation
	263: true, // OperationNotSupportedInTransaction
}

// IsNotSupported reports whether err indicates the server cannot run
// multi-document transactions. It recognizes the known command error
// codes and falls back to keyword matching for drivers/proxies that
// wrap the original error.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && notSupportedCodes[cmdErr.Code] {
		return true
	}

	msg := strings.ToLower(err.Error())
	hasTxn := strings.Contains(msg, "transaction")
	switch {
	case hasTxn && strings.Contains(msg, "replica set"):
		return true
	case hasTxn && strings.Contains(msg, "session"):
		return true
	case hasTxn && strings.Contains(msg, "illegal operation"):
		return true
	case strings.Contains(msg, "session") && strings.Contains(msg, "not supported"):
		return true
	}
	return false
}

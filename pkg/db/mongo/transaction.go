package mongo

import (
	"context"
	"errors"
	"fmt"

	apperrors "bondvoyage/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// codeIllegalOperation is what a standalone mongod answers when asked to
// start a transaction.
const codeIllegalOperation = 20

// ErrTransactionsUnsupported means the server is not a replica set member, so
// multi-document writes such as payment submissions cannot run.
var ErrTransactionsUnsupported = errors.New("mongo deployment does not support transactions")

type TransactionFunc func(ctx mongo.SessionContext) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type mongoTransactionManager struct {
	client *mongo.Client
	opts   *options.TransactionOptions
}

// NewTransactionManager runs callbacks with majority read and write concern
// so a committed payment is never rolled back by a failover.
func NewTransactionManager(client *mongo.Client) TransactionManager {
	return &mongoTransactionManager{
		client: client,
		opts: options.Transaction().
			SetReadConcern(readconcern.Majority()).
			SetWriteConcern(writeconcern.Majority()),
	}
}

// ExecuteTransaction runs fn inside a session. The driver retries fn on
// transient transaction errors, so fn must be safe to run more than once.
// AppErrors raised by fn come back untouched.
func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(context.WithoutCancel(ctx))

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	}, m.opts)
	switch {
	case err == nil:
		return nil
	case apperrors.IsAppError(err):
		return err
	case isTransactionsUnsupported(err):
		return fmt.Errorf("%w: %v", ErrTransactionsUnsupported, err)
	default:
		return fmt.Errorf("transaction failed: %w", err)
	}
}

func isTransactionsUnsupported(err error) bool {
	var serverErr mongo.ServerError
	return errors.As(err, &serverErr) && serverErr.HasErrorCode(codeIllegalOperation)
}

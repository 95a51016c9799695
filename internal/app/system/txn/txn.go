// Package txn wraps MongoDB multi-document transactions.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// IsNotSupported reports whether err means the server cannot run
// transactions (standalone mongod, or a session-less deployment).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, // IllegalOperation
			51,  // transaction numbers outside a replica set (older servers)
			263: // OperationNotSupportedInTransaction
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "transaction") {
		if strings.Contains(msg, "replica set") ||
			strings.Contains(msg, "session") ||
			strings.Contains(msg, "illegal operation") {
			return true
		}
	}
	return strings.Contains(msg, "session") && strings.Contains(msg, "not supported")
}

// Run executes fn inside a transaction with majority read/write concern.
// fn may be retried by the driver on transient errors.
func Run(ctx context.Context, client *mongo.Client, fn func(sc mongo.SessionContext) error) error {
	sess, err := client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	opts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	}, opts)
	return err
}

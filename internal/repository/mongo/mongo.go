// Package mongo implements the repository interfaces on MongoDB.
//
// WHY A DOCUMENT STORE?
// Every record in this app is self-contained — users, tutorials, and
// bookmarks reference each other by application-level string IDs, never by
// database-assigned ones, and there are no joins (the one cross-collection
// lookup, bookmarks → tutorials, is resolved in the service layer with a
// batch $in query). That access pattern is exactly what a document store
// gives you for free.
//
// DRIVER NOTES (go.mongodb.org/mongo-driver/v2):
//   - mongo.Connect returns a client backed by a connection pool; it's safe
//     for concurrent use and is created once at startup.
//   - Queries take a filter document (bson.M) — field-equality, $regex for
//     substring search, $in for batch loads. Nothing fancier is needed here.
//   - mongo.ErrNoDocuments from FindOne is the "absent" case; the
//     repositories translate it to apperror.ErrNotFound so the rest of the
//     app never imports the driver.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// listLimit caps every multi-document query. The app has no pagination; a
// fixed cap keeps an unbounded collection from turning one request into a
// full table scan shipped over the wire.
const listLimit = 1000

// DB wraps the Mongo client and the application database handle.
//
// It is the single owner of the connection pool: server.New creates it,
// the repositories share it, and server shutdown closes it.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to MongoDB and verifies the connection with a ping.
//
// Without the ping, a bad URL or an unreachable server would only surface
// on the first query — much harder to debug than failing at startup.
func New(ctx context.Context, uri, dbName string) (*DB, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connecting: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo: pinging %s: %w", uri, err)
	}

	return &DB{
		client: client,
		db:     client.Database(dbName),
	}, nil
}

// Close disconnects the client, returning pooled connections.
func (d *DB) Close(ctx context.Context) error {
	if err := d.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongo: disconnecting: %w", err)
	}
	return nil
}

func (d *DB) users() *mongo.Collection     { return d.db.Collection("users") }
func (d *DB) tutorials() *mongo.Collection { return d.db.Collection("tutorials") }
func (d *DB) bookmarks() *mongo.Collection { return d.db.Collection("bookmarks") }

package dgraph

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/dgraph-io/dgo/v230"
	"github.com/dgraph-io/dgo/v230/protos/api"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/syssam/graft/dialect"
)

// Client applies translated payloads to a live Dgraph instance over gRPC.
// It owns the connection; retry policy is limited to transaction aborts.
type Client struct {
	conn *grpc.ClientConn
	dg   *dgo.Dgraph
}

// Dial connects to a Dgraph alpha at the given gRPC address.
func Dial(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	return &Client{
		conn: conn,
		dg:   dgo.NewDgraphClient(api.NewDgraphClient(conn)),
	}, nil
}

// Dialect returns the dialect name.
func (c *Client) Dialect() string { return dialect.Dgraph }

// Alter applies a schema payload. Dgraph treats it as append-only: existing
// predicates and types are extended, never dropped.
func (c *Client) Alter(ctx context.Context, schema string) error {
	return c.dg.Alter(ctx, &api.Operation{Schema: schema})
}

// Mutate executes one upsert request in its own transaction, retrying
// aborted transactions with a short random sleep to avoid herding.
func (c *Client) Mutate(ctx context.Context, req dialect.Request) error {
	mutations := make([]*api.Mutation, 0, len(req.Mutations))
	for _, m := range req.Mutations {
		mutations = append(mutations, &api.Mutation{
			Cond:      m.Cond,
			SetNquads: m.SetNquads,
		})
	}
	for {
		txn := c.dg.NewTxn()
		_, err := txn.Do(ctx, &api.Request{
			Query:     req.Query,
			Mutations: mutations,
			CommitNow: true,
		})
		_ = txn.Discard(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, dgo.ErrAborted) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(rand.Int63n(int64(time.Second)))):
		}
	}
}

// Close releases the gRPC connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

var _ dialect.Ingester = (*Client)(nil)

package mongo

import (
	"context"
	"fmt"
	"time"

	"linkup/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Client wraps a connected mongo client and the application database.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

func Connect(ctx context.Context, cfg config.DatabaseConfig) (*Client, error) {
	opts := options.Client().ApplyURI(cfg.MongoURI)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}
	if cfg.PoolMaxConns > 0 {
		opts.SetMaxPoolSize(uint64(cfg.PoolMaxConns))
	}

	c, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = c.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}

	return &Client{client: c, db: c.Database(cfg.MongoDatabase)}, nil
}

func (c *Client) Database() *mongo.Database {
	if c == nil {
		return nil
	}
	return c.db
}

func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("mongo: nil client")
	}
	return c.client.Ping(ctx, readpref.Primary())
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

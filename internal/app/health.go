package app

import (
	"context"
	"database/sql"

	goredis "github.com/redis/go-redis/v9"
)

type sqlPinger struct {
	db *sql.DB
}

func (p sqlPinger) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

type redisPinger struct {
	rdb goredis.UniversalClient
}

func (p redisPinger) Ping(ctx context.Context) error { return p.rdb.Ping(ctx).Err() }

package testing

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
)

// DockerPool connects to the local docker daemon.
func DockerPool(t *testing.T) *dockertest.Pool {
	t.Helper()

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	pool, err := dockertest.NewPool("")
	require.NoError(t, err)
	require.NoError(t, pool.Client.Ping())
	pool.MaxWait = time.Minute
	return pool
}

// RunPostgres starts a throwaway postgres with trust auth for user postgres
// and returns its host port once it accepts connections.
func RunPostgres(t *testing.T, pool *dockertest.Pool, dbName string) string {
	t.Helper()

	pgResource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=" + dbName,
			"POSTGRES_HOST_AUTH_METHOD=trust",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgResource.Close(); err != nil {
			t.Logf("postgres teardown: %s", err)
		}
	})

	pgPort := pgResource.GetPort("5432/tcp")
	dsn := fmt.Sprintf("postgres://postgres@localhost:%s/%s?sslmode=disable", pgPort, dbName)
	require.NoError(t, pool.Retry(func() error {
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return err
		}
		defer sqlDB.Close()
		return sqlDB.Ping()
	}))

	return pgPort
}

// RunRedis starts a throwaway redis without a password and returns its host port.
func RunRedis(t *testing.T, pool *dockertest.Pool) string {
	t.Helper()

	redisResource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := redisResource.Close(); err != nil {
			t.Logf("redis teardown: %s", err)
		}
	})

	redisPort := redisResource.GetPort("6379/tcp")
	require.NoError(t, pool.Retry(func() error {
		rdb := NewRedisClient(redisPort)
		defer rdb.Close()
		return rdb.Ping(context.Background()).Err()
	}))

	return redisPort
}

func NewRedisClient(port string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: net.JoinHostPort("localhost", port),
		DB:   0, // use default DB
	})
}

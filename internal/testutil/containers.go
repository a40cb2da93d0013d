// Package testutil starts throwaway backing services for adapter tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Endpoint is where a started container can be reached from the test.
type Endpoint struct {
	Host string
	Port string
}

func (e Endpoint) Addr() string {
	return e.Host + ":" + e.Port
}

// StartContainer runs req and returns the mapped endpoint of port. The test
// is skipped under -short or when no container runtime is available; the
// container is terminated when the test ends.
func StartContainer(t *testing.T, req testcontainers.ContainerRequest, port string) Endpoint {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start %s: %v", req.Image, err)
	}
	t.Cleanup(func() {
		_ = c.Terminate(context.Background())
	})

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, nat.Port(port))
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	return Endpoint{Host: host, Port: mapped.Port()}
}

// RedisImage starts the given Redis image.
func RedisImage(t *testing.T, image string) Endpoint {
	return StartContainer(t, testcontainers.ContainerRequest{
		Image:        image,
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
	}, "6379/tcp")
}

func Mongo(t *testing.T) Endpoint {
	return StartContainer(t, testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(90 * time.Second),
	}, "27017/tcp")
}

// Postgres credentials used by the Postgres container.
const (
	PostgresUser     = "testuser"
	PostgresPassword = "testpassword"
	PostgresDB       = "testdb"
)

func Postgres(t *testing.T) Endpoint {
	return StartContainer(t, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     PostgresUser,
			"POSTGRES_PASSWORD": PostgresPassword,
			"POSTGRES_DB":       PostgresDB,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}, "5432/tcp")
}

// MongoURI is the connection string for a Mongo endpoint.
func MongoURI(e Endpoint) string {
	return fmt.Sprintf("mongodb://%s", e.Addr())
}

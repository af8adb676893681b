package inventory

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/docker/docker/client"

	"github.com/samwho/ctrsnap/internal/model"
)

// defaultPingTimeout bounds the initial connectivity probe so a wedged
// daemon fails fast instead of hanging the whole command.
const defaultPingTimeout = 5 * time.Second

// Client wraps the Docker Engine SDK client with the same socket-detection
// dance docker-cli-style tooling performs, since nothing about finding the
// daemon socket changes between domains.
type Client struct {
	inner *client.Client
}

// NewClient connects to the local container engine, honoring DOCKER_HOST
// if set and otherwise probing the conventional per-OS socket locations.
func NewClient() (*Client, error) {
	if host := os.Getenv("DOCKER_HOST"); host != "" {
		return newClientWithHost(host)
	}

	host, err := detectDockerHost()
	if err != nil {
		return nil, model.WrapCLIError(model.ExitInventoryError, "detecting docker host", err)
	}
	return newClientWithHost(host)
}

func newClientWithHost(host string) (*Client, error) {
	cli, err := client.NewClientWithOpts(
		client.WithHost(host),
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitInventoryError, "creating docker client", err)
	}
	return &Client{inner: cli}, nil
}

func detectDockerHost() (string, error) {
	switch runtime.GOOS {
	case "windows":
		return detectNamedPipe()
	case "darwin":
		candidates := []string{
			"/var/run/docker.sock",
			filepath.Join(homeDir(), ".docker", "run", "docker.sock"),
		}
		return detectUnixSocket(candidates)
	default:
		return detectUnixSocket([]string{"/var/run/docker.sock"})
	}
}

func detectUnixSocket(candidates []string) (string, error) {
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return "unix://" + path, nil
		}
	}
	return "", fmt.Errorf("no docker socket found among: %v", candidates)
}

func detectNamedPipe() (string, error) {
	const pipe = `\\.\pipe\docker_engine`
	conn, err := net.DialTimeout("pipe", pipe, time.Second)
	if err != nil {
		return "", fmt.Errorf("dialing %s: %w", pipe, err)
	}
	conn.Close()
	return "npipe://" + pipe, nil
}

func homeDir() string {
	h, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return h
}

// Ping verifies the daemon is reachable, bounding the attempt with
// defaultPingTimeout so a hung daemon surfaces quickly as InventoryError.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	if _, err := c.inner.Ping(ctx); err != nil {
		return model.WrapCLIError(model.ExitInventoryError, "pinging docker daemon", err)
	}
	return nil
}

// Close releases the underlying HTTP client's resources.
func (c *Client) Close() error {
	return c.inner.Close()
}

// Inner exposes the raw SDK client for operations not wrapped by Adapter.
func (c *Client) Inner() *client.Client {
	return c.inner
}

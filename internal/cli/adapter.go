package cli

import (
	"context"

	"github.com/samwho/ctrsnap/internal/inventory"
)

// connect opens a container engine connection and wraps it as an
// inventory.Adapter, mirroring the source's docker_option decorator
// (original_source/dlabel/main.py) which hands every command a connected
// client before its body runs.
func connect(ctx context.Context) (*inventory.Client, inventory.Adapter, error) {
	c, err := inventory.NewClient()
	if err != nil {
		return nil, nil, err
	}
	if err := c.Ping(ctx); err != nil {
		c.Close()
		return nil, nil, err
	}
	VerboseLog("connected to container engine")
	return c, inventory.NewDockerAdapter(c, newLogger()), nil
}

package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/samwho/ctrsnap/internal/inventory"
	"github.com/samwho/ctrsnap/internal/monitor"
)

// monitorFlags holds the flags shared by traefik-nginx-monitor and
// traefik-apache-monitor: --conffile, --oneshot/--forever, --interval,
// and the optional test/reload hook commands.
type monitorFlags struct {
	conffile  string
	oneshot   bool
	interval  time.Duration
	serverURL string
	baseconf  string
	ipaddr    bool
	testCmd   []string
	reloadCmd []string
}

func registerMonitorFlags(cmd *cobra.Command, flags *monitorFlags) {
	cmd.Flags().StringVar(&flags.conffile, "conffile", "", "path the rendered proxy configuration is written to")
	cmd.Flags().BoolVar(&flags.oneshot, "oneshot", false, "render and test once, then exit, instead of looping forever")
	cmd.Flags().DurationVar(&flags.interval, "interval", 30*time.Second, "poll interval between regeneration passes")
	cmd.Flags().StringVar(&flags.serverURL, "server-url", "http://localhost", "server URL used for the default server block and port")
	cmd.Flags().StringVar(&flags.baseconf, "baseconf", "", "path to an existing base config to splice routes into")
	cmd.Flags().BoolVar(&flags.ipaddr, "ipaddr", false, "proxy to each backend's container IP instead of its hostname")
	cmd.Flags().StringSliceVar(&flags.testCmd, "test-cmd", nil, "argv used to validate a rendered config before it takes effect (skipped if unset)")
	cmd.Flags().StringSliceVar(&flags.reloadCmd, "reload-cmd", nil, "argv used to tell the running proxy to reload (skipped if unset)")
}

// renderFunc produces one proxy-dialect config string from the live
// ingress state; bound to nginx.Generate or apache.Generate by the caller.
type renderFunc func(ctx context.Context, inv inventory.Adapter, baseConf, serverURL string, ipaddr bool) (string, error)

func runProxyMonitor(cmd *cobra.Command, flags *monitorFlags, render renderFunc) error {
	return runProxyMonitorWithBaseConf(cmd, flags, render, readBaseConf)
}

// runNginxProxyMonitor is runProxyMonitor with nginx's extra .json/.jsonc
// base-config handling; traefik-apache-monitor uses runProxyMonitor
// directly since Apache's base config has no directive-tree form.
func runNginxProxyMonitor(cmd *cobra.Command, flags *monitorFlags, render renderFunc) error {
	return runProxyMonitorWithBaseConf(cmd, flags, render, readNginxBaseConf)
}

func runProxyMonitorWithBaseConf(cmd *cobra.Command, flags *monitorFlags, render renderFunc, loadBaseConf func(string) (string, error)) error {
	ctx := cmd.Context()

	c, inv, err := connect(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	baseConf, err := loadBaseConf(flags.baseconf)
	if err != nil {
		return err
	}

	generate := func(ctx context.Context) (string, error) {
		return render(ctx, inv, baseConf, flags.serverURL, flags.ipaddr)
	}

	sup := monitor.New(monitor.Config{
		Interval:   flags.interval,
		ConfigPath: flags.conffile,
		TestCmd:    flags.testCmd,
		ReloadCmd:  flags.reloadCmd,
	}, generate, monitor.ExecRunner, newLogger())

	if flags.oneshot {
		oneshotCtx, cancel := context.WithCancel(ctx)
		sup.OnState(func(s monitor.State) {
			VerboseLog("supervisor state: %s", s)
			if s == monitor.StateRunning {
				cancel()
			}
		})
		return sup.Run(oneshotCtx)
	}

	sup.OnState(func(s monitor.State) { VerboseLog("supervisor state: %s", s) })
	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return sup.Run(runCtx)
}

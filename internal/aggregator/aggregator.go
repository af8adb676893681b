package aggregator

import (
	"context"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/samwho/ctrsnap/internal/ingress"
	"github.com/samwho/ctrsnap/internal/inventory"
	"github.com/samwho/ctrsnap/internal/merge"
	"github.com/samwho/ctrsnap/internal/model"
)

// Aggregate walks the inventory end to end: extract
// from_conf/from_envs/from_args/from_label, lowercase each extracted tree,
// merge with fixed precedence (label wins, since per-workload annotations
// are authoritative over proxy-wide defaults), and decode into the typed
// model.
func Aggregate(ctx context.Context, inv inventory.Adapter, log *logrus.Logger) (*ingress.TraefikConfig, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	containers, err := inv.ListContainers(ctx)
	if err != nil {
		return nil, err
	}

	fromConf := map[string]any{}
	fromEnvs := map[string]any{}
	fromArgs := map[string]any{}
	fromLabel := map[string]any{}

	for _, c := range containers {
		if strings.Contains(c.Image, "traefik") {
			argsTree := merge.LowercaseKeys(ExtractArgs(c.Args)).(map[string]any)
			envsTree := merge.LowercaseKeys(ExtractEnvs(c.Env)).(map[string]any)
			fromArgs = merge.MergeTrees(fromArgs, argsTree)
			fromEnvs = merge.MergeTrees(fromEnvs, envsTree)

			provider := mergedProviders(argsTree, envsTree)
			confTree := merge.LowercaseKeys(ExtractFileProvider(ctx, inv, c.ID, provider, log)).(map[string]any)
			fromConf = merge.MergeTrees(fromConf, confTree)
		}

		if c.Labels["traefik.enable"] == "true" {
			addr := firstNetworkAddress(c.Networks)
			labelTree := merge.LowercaseKeys(ExtractLabels(c.Labels, c.Name, addr)).(map[string]any)
			fromLabel = merge.MergeTrees(fromLabel, labelTree)
		}
	}

	final := merge.MergeTrees(fromConf, fromEnvs, fromArgs, fromLabel)
	final = merge.LowercaseKeys(final).(map[string]any)

	cfg := ingress.FromMap(final)
	return &cfg, nil
}

func mergedProviders(argsTree, envsTree map[string]any) map[string]any {
	argsProviders, _ := argsTree["providers"].(map[string]any)
	envsProviders, _ := envsTree["providers"].(map[string]any)
	merged := merge.Merge(any(argsProviders), any(envsProviders))
	if m, ok := merged.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// firstNetworkAddress picks the address of the container's "first"
// network attachment. Go map iteration order isn't
// meaningful, so "first" is made deterministic by sorting network names.
func firstNetworkAddress(networks map[string]model.NetworkAttachment) string {
	if len(networks) == 0 {
		return ""
	}
	names := make([]string, 0, len(networks))
	for name := range networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return networks[names[0]].IPAddress
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samwho/ctrsnap/internal/ingress"
	"github.com/samwho/ctrsnap/internal/model"
	"github.com/samwho/ctrsnap/internal/render"
)

type traefikLoadFlags struct {
	traefikFile string
	strict      bool
}

// NewTraefikLoadCommand builds "traefik-load": parse and re-serialize a
// traefik configuration file, optionally rejecting unknown fields via
// --strict.
func NewTraefikLoadCommand() *cobra.Command {
	flags := &traefikLoadFlags{}

	cmd := &cobra.Command{
		Use:   "traefik-load [file]",
		Short: "Validate and re-serialize a Traefik configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.traefikFile = args[0]
			return runTraefikLoad(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.strict, "strict", false, "reject unrecognized fields instead of preserving them")

	return cmd
}

func runTraefikLoad(cmd *cobra.Command, flags *traefikLoadFlags) error {
	cfg, err := loadTraefikConfig(cmd.Context(), flags.traefikFile)
	if err != nil {
		return err
	}

	if flags.strict {
		if addr, ok := firstUnknownField(cfg); ok {
			schemaErr := &model.SchemaError{Address: addr, Reason: "unrecognized field"}
			return model.WrapCLIError(model.ExitSchemaError, "strict validation failed", schemaErr)
		}
	}

	data, err := render.Render(cfg.CanonicalMap(), render.Format(OutputFormat()))
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// firstUnknownField walks the decoded tree's Extra bags (every submodel
// preserves unrecognized keys there in lenient mode) and returns the
// dotted address of the first one found, for strict-mode rejection.
func firstUnknownField(cfg ingress.TraefikConfig) (string, bool) {
	if len(cfg.Extra) > 0 {
		return "$", true
	}
	if cfg.Http != nil {
		if len(cfg.Http.Extra) > 0 {
			return "http", true
		}
		for name, r := range cfg.Http.Routers {
			if len(r.Extra) > 0 {
				return "http.routers." + name, true
			}
		}
		for name, s := range cfg.Http.Services {
			if len(s.Extra) > 0 {
				return "http.services." + name, true
			}
		}
		// Middlewares keep the keys of their passthrough kinds in Extra
		// even when fully recognized (see middleware.go), so a non-empty
		// Extra there is not a meaningful strict-mode signal.
	}
	if cfg.Tls != nil && len(cfg.Tls.Extra) > 0 {
		return "tls", true
	}
	if cfg.Providers != nil && len(cfg.Providers.Extra) > 0 {
		return "providers", true
	}
	for name, e := range cfg.Entrypoints {
		if len(e.Extra) > 0 {
			return "entrypoints." + name, true
		}
	}
	return "", false
}

package compiler

import (
	"github.com/artpar/stackgen/internal/core/config"
	"github.com/artpar/stackgen/internal/core/defaults"
	"github.com/artpar/stackgen/internal/core/domain"
	"github.com/artpar/stackgen/internal/core/manifest"
	"github.com/artpar/stackgen/internal/core/secrets"
	"github.com/artpar/stackgen/internal/core/topology"
	"github.com/artpar/stackgen/internal/core/validation"
)

// =============================================================================
// Compilation
// =============================================================================

// Options carries boundary-layer overrides applied on top of the input's
// own globals. Pointer fields are tri-state: nil leaves the input value
// alone.
type Options struct {
	Tier     string
	FQDN     string
	Strategy string

	HealthChecks      *bool
	ResourceLimits    *bool
	VolumePersistence *bool
	Retry             *bool
	RateLimit         *bool
	Monitoring        *bool
	Logging           *bool
	NetworkSeparation *bool
	UseSecrets        *bool

	// SecretPatterns replaces the sensitivity heuristic; nil keeps the
	// default patterns.
	SecretPatterns []string

	// Tables replaces the defaulting tables; the zero value selects
	// defaults.DefaultTables.
	Tables *defaults.Tables
}

// Result is a successful compilation: the assembled document, its
// rendered YAML, and any non-fatal warnings.
type Result struct {
	Document *manifest.Document
	Rendered []byte
	Warnings []domain.Warning
}

// Compile transforms a JSON service description into a validated,
// rendered manifest. All-or-nothing: any stage error aborts with no
// partial output.
func Compile(raw []byte, opts Options) (*Result, error) {
	in, err := config.Load(raw)
	if err != nil {
		return nil, err
	}
	applyOverrides(&in.Globals, opts)

	tables := defaults.DefaultTables()
	if opts.Tables != nil {
		tables = *opts.Tables
	}
	resolved := defaults.Resolve(in, tables)

	detector := secrets.DefaultDetector()
	if opts.SecretPatterns != nil {
		detector = secrets.NewDetector(opts.SecretPatterns)
	}
	secretPlan, err := secrets.BuildPlan(resolved.Services, detector)
	if err != nil {
		return nil, err
	}

	topoPlan, err := topology.BuildPlan(secretPlan.Services, resolved.Globals)
	if err != nil {
		return nil, err
	}

	sizing := tables.Logging[resolved.Globals.Tier]
	doc := manifest.Assemble(manifest.Params{
		Services: topoPlan.Services,
		Globals:  resolved.Globals,
		Secrets:  secretPlan.Registry,
		Networks: topoPlan.Networks,
		Volumes:  topoPlan.Volumes,
		Logging:  manifest.LogSizing{MaxSize: sizing.MaxSize, MaxFile: sizing.MaxFile},
	})

	if err := validation.Validate(doc, topoPlan.Services); err != nil {
		return nil, err
	}

	rendered, err := doc.Render()
	if err != nil {
		return nil, &validation.SchemaError{Message: err.Error()}
	}
	if err := validation.ValidateRendered(rendered); err != nil {
		return nil, err
	}

	return &Result{
		Document: doc,
		Rendered: rendered,
		Warnings: topoPlan.Warnings,
	}, nil
}

func applyOverrides(g *domain.Globals, opts Options) {
	if opts.Tier != "" {
		g.Tier = domain.ParseTier(opts.Tier)
	}
	if opts.FQDN != "" {
		g.FQDN = opts.FQDN
	}
	if opts.Strategy != "" {
		g.DeploymentStrategy = domain.ParseStrategy(opts.Strategy)
	}
	setIf(&g.HealthChecks, opts.HealthChecks)
	setIf(&g.ResourceLimits, opts.ResourceLimits)
	setIf(&g.VolumePersistence, opts.VolumePersistence)
	setIf(&g.EnableRetry, opts.Retry)
	setIf(&g.EnableRateLimit, opts.RateLimit)
	setIf(&g.EnableMonitoring, opts.Monitoring)
	setIf(&g.EnableLogging, opts.Logging)
	setIf(&g.NetworkSeparation, opts.NetworkSeparation)
	setIf(&g.UseSecrets, opts.UseSecrets)
}

func setIf(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

package manifest

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/artpar/stackgen/internal/core/domain"
	"github.com/artpar/stackgen/internal/core/topology"
	"github.com/artpar/stackgen/internal/core/traefik"
)

// =============================================================================
// Document Assembly
// =============================================================================

// LogSizing is the tier-resolved log rotation sizing applied to every
// service's logging block.
type LogSizing struct {
	MaxSize string
	MaxFile string
}

// Params carries everything the assembler merges: sealed services (with
// networks assigned and secrets planned), the effective globals and the
// three registries built by earlier stages.
type Params struct {
	Services []domain.ServiceSpec
	Globals  domain.Globals
	Secrets  []domain.SecretDeclaration
	Networks []topology.NetworkDecl
	Volumes  []topology.VolumeDecl
	Logging  LogSizing
}

// Assemble merges per-service fragments and global registries into one
// document. Pure derivation: two calls with equal params produce equal
// documents.
func Assemble(p Params) *Document {
	doc := &Document{
		Version:  ComposeVersion,
		Services: NewServiceMap(),
		Networks: make(map[string]NetworkConfig, len(p.Networks)),
		Volumes:  make(map[string]VolumeConfig, len(p.Volumes)),
	}

	for _, decl := range p.Networks {
		doc.Networks[decl.Ref.Name] = networkConfig(decl)
	}
	if len(p.Secrets) > 0 {
		doc.Secrets = make(map[string]ExternalRef, len(p.Secrets))
		for _, decl := range p.Secrets {
			doc.Secrets[decl.Source] = ExternalRef{External: true}
		}
	}
	for _, decl := range p.Volumes {
		doc.Volumes[decl.Name] = VolumeConfig{
			Driver: decl.Driver,
			Labels: map[string]string{
				"service":     decl.Service,
				"environment": string(p.Globals.Tier),
				"backup":      strconv.FormatBool(decl.Backup),
			},
		}
	}

	for _, svc := range p.Services {
		doc.Services.Add(svc.Name, serviceFragment(svc, p))
	}

	return doc
}

func serviceFragment(svc domain.ServiceSpec, p Params) *ServiceConfig {
	rule := traefik.BuildRule(svc, p.Globals)

	cfg := &ServiceConfig{
		Image:       svc.Image,
		Networks:    append([]string(nil), svc.Networks...),
		Environment: environmentList(svc, rule, p.Globals),
		Secrets:     secretMounts(svc.Secrets),
		Volumes:     mountStrings(svc.Volumes),
		Deploy:      deployBlock(svc, rule, p.Globals),
	}

	if svc.HealthCheck != nil {
		cfg.HealthCheck = &HealthCheckConfig{
			Test:        append([]string(nil), svc.HealthCheck.Test...),
			Interval:    svc.HealthCheck.Interval,
			Timeout:     svc.HealthCheck.Timeout,
			Retries:     svc.HealthCheck.Retries,
			StartPeriod: svc.HealthCheck.StartPeriod,
		}
	}

	if p.Globals.EnableLogging {
		cfg.Logging = &LoggingConfig{
			Driver: "json-file",
			Options: map[string]string{
				"max-size": p.Logging.MaxSize,
				"max-file": p.Logging.MaxFile,
				"labels":   fmt.Sprintf("service=%s,environment=%s", svc.Name, p.Globals.Tier),
				"tag":      "{{.Name}}/{{.ID}}",
			},
		}
	}

	return cfg
}

// environmentList renders the base identity entries followed by the
// service's own variables in sorted order.
func environmentList(svc domain.ServiceSpec, rule *domain.RoutingRule, globals domain.Globals) []string {
	env := []string{
		"SERVICE_NAME=" + svc.Name,
		"ENVIRONMENT=" + string(globals.Tier),
	}
	if rule != nil {
		env = append(env, "DOMAIN="+rule.Host)
	}

	keys := make([]string, 0, len(svc.Environment))
	for k := range svc.Environment {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+svc.Environment[k])
	}
	return env
}

func secretMounts(decls []domain.SecretDeclaration) []SecretMount {
	mounts := make([]SecretMount, 0, len(decls))
	for _, d := range decls {
		mount := SecretMount{
			Source: d.Source,
			Target: d.Target,
			UID:    d.UID,
			GID:    d.GID,
		}
		if d.Mode != 0 {
			mode := d.Mode
			mount.Mode = &mode
		}
		mounts = append(mounts, mount)
	}
	return mounts
}

func mountStrings(volumes []domain.VolumeSpec) []string {
	mounts := make([]string, 0, len(volumes))
	for _, v := range volumes {
		if v.Anonymous() {
			mounts = append(mounts, v.Path)
			continue
		}
		mounts = append(mounts, v.Name+":"+v.Path)
	}
	return mounts
}

func deployBlock(svc domain.ServiceSpec, rule *domain.RoutingRule, globals domain.Globals) DeployConfig {
	var labels []string
	if rule != nil {
		labels = append(labels, traefik.RouteLabels(svc.Name, *rule)...)
	}
	if svc.Monitoring != nil && *svc.Monitoring {
		labels = append(labels, traefik.MonitoringLabels(svc, rule)...)
	}
	if svc.DeploymentStrategy != domain.StrategyRolling {
		labels = append(labels, fmt.Sprintf("%s=%s", StrategyLabelKey, svc.DeploymentStrategy))
	}

	deploy := DeployConfig{
		Replicas:       svc.Replicas,
		Labels:         labels,
		UpdateConfig:   updateConfigFor(svc.DeploymentStrategy, globals.Tier),
		RollbackConfig: rollbackConfigFor(globals.Tier),
		RestartPolicy: &RestartPolicyConfig{
			Condition:   "on-failure",
			Delay:       "5s",
			MaxAttempts: 5,
			Window:      "120s",
		},
	}

	if len(svc.Constraints) > 0 {
		deploy.Placement = &PlacementConfig{Constraints: append([]string(nil), svc.Constraints...)}
	}

	if svc.Resources != nil {
		resources := &ResourcesConfig{}
		if svc.Resources.Limits.CPUs != "" || svc.Resources.Limits.Memory != "" {
			resources.Limits = &ResourceBandConfig{
				CPUs:   svc.Resources.Limits.CPUs,
				Memory: svc.Resources.Limits.Memory,
			}
		}
		if svc.Resources.Reservations != nil {
			resources.Reservations = &ResourceBandConfig{
				CPUs:   svc.Resources.Reservations.CPUs,
				Memory: svc.Resources.Reservations.Memory,
			}
		}
		if resources.Limits != nil || resources.Reservations != nil {
			deploy.Resources = resources
		}
	}

	return deploy
}

func networkConfig(decl topology.NetworkDecl) NetworkConfig {
	cfg := NetworkConfig{
		Driver:   decl.Driver,
		External: decl.External,
		Internal: decl.Internal,
	}
	if decl.Encrypted {
		cfg.DriverOpts = map[string]string{"encrypted": "true"}
	}
	return cfg
}

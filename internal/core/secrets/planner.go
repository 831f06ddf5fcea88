package secrets

import (
	"sort"
	"strings"

	"github.com/artpar/stackgen/internal/core/domain"
)

// =============================================================================
// Secret Planning
// =============================================================================

// SecretMountDir is where Swarm mounts file secrets inside containers.
const SecretMountDir = "/run/secrets"

// AutoSecretMode is the file mode for auto-converted secrets: readable
// by the container user only.
const AutoSecretMode uint32 = 0o400

// Plan is the planner output: services with rewritten environments and
// final secret lists, plus the document-level registry in first-seen
// order.
type Plan struct {
	Services []domain.ServiceSpec
	Registry []domain.SecretDeclaration
}

// registryEntry tracks who first declared a source, for conflict
// reporting.
type registryEntry struct {
	decl    domain.SecretDeclaration
	service string
}

// BuildPlan folds declared secrets and auto-converted environment
// variables into per-service declarations and the shared registry.
// Services must already be sealed. The inputs are copied, not mutated.
func BuildPlan(services []domain.ServiceSpec, det Detector) (*Plan, error) {
	plan := &Plan{Services: make([]domain.ServiceSpec, 0, len(services))}
	registry := make(map[string]registryEntry)
	var order []string

	register := func(svc string, decl domain.SecretDeclaration) error {
		existing, seen := registry[decl.Source]
		if !seen {
			registry[decl.Source] = registryEntry{decl: decl, service: svc}
			order = append(order, decl.Source)
			return nil
		}
		// A bare reference asserts no metadata, so it is compatible with
		// anything; a detailed declaration upgrades the registry entry.
		if decl.Bare() {
			return nil
		}
		if existing.decl.Bare() {
			registry[decl.Source] = registryEntry{decl: decl, service: svc}
			return nil
		}
		if !existing.decl.SameMetadata(decl) {
			return &ConflictError{
				Source:        decl.Source,
				FirstService:  existing.service,
				SecondService: svc,
			}
		}
		return nil
	}

	for _, original := range services {
		svc := original.Clone()

		for _, decl := range svc.Secrets {
			if err := register(svc.Name, decl); err != nil {
				return nil, err
			}
		}

		if svc.UseSecrets != nil && *svc.UseSecrets {
			converted, err := convertSensitiveEnv(&svc, det, register)
			if err != nil {
				return nil, err
			}
			svc.Secrets = append(svc.Secrets, converted...)
		}

		plan.Services = append(plan.Services, svc)
	}

	plan.Registry = make([]domain.SecretDeclaration, 0, len(order))
	for _, source := range order {
		plan.Registry = append(plan.Registry, registry[source].decl)
	}
	return plan, nil
}

// convertSensitiveEnv replaces sensitive plaintext variables with
// file-mounted secrets:
//
//	API_KEY=v  ->  API_KEY_FILE=/run/secrets/api_key
//	           +   secret {source: <svc>_api_key, target: /run/secrets/api_key}
//
// The conversion is idempotent: _FILE variables never match the
// detector, and a variable whose _FILE companion already exists has
// been converted before and is skipped.
func convertSensitiveEnv(svc *domain.ServiceSpec, det Detector, register func(string, domain.SecretDeclaration) error) ([]domain.SecretDeclaration, error) {
	names := make([]string, 0, len(svc.Environment))
	for name := range svc.Environment {
		names = append(names, name)
	}
	sort.Strings(names)

	var converted []domain.SecretDeclaration
	for _, name := range names {
		if !det.Sensitive(name) {
			continue
		}
		if _, done := svc.Environment[name+"_FILE"]; done {
			continue
		}

		lower := strings.ToLower(name)
		decl := domain.SecretDeclaration{
			Source: svc.Name + "_" + lower,
			Target: SecretMountDir + "/" + lower,
			Mode:   AutoSecretMode,
		}
		if err := register(svc.Name, decl); err != nil {
			return nil, err
		}

		delete(svc.Environment, name)
		svc.Environment[name+"_FILE"] = decl.Target
		converted = append(converted, decl)
	}
	return converted, nil
}

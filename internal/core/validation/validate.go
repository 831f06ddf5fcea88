package validation

import (
	"github.com/artpar/stackgen/internal/core/domain"
	"github.com/artpar/stackgen/internal/core/manifest"
	"github.com/artpar/stackgen/internal/core/topology"
)

// =============================================================================
// Cross-Reference Validation
// =============================================================================

// Validate walks the assembled document and confirms every
// cross-reference resolves and every structural invariant holds. The
// sealed services carry the exposure flags the rendered fragments do
// not.
func Validate(doc *manifest.Document, services []domain.ServiceSpec) error {
	exposure := make(map[string]bool, len(services))
	for _, svc := range services {
		exposure[svc.Name] = svc.Exposed()
	}

	for _, name := range doc.Services.Names() {
		fragment := doc.Services.Get(name)

		if fragment.Image == "" {
			return &SchemaError{Field: "services." + name + ".image", Message: "image is required"}
		}
		if len(fragment.Networks) == 0 {
			return &SchemaError{Field: "services." + name + ".networks", Message: "service must join at least one network"}
		}
		if fragment.Deploy.Replicas < 1 {
			return &SchemaError{Field: "services." + name + ".deploy.replicas", Message: "replicas must be at least 1"}
		}

		onPublic := false
		for _, network := range fragment.Networks {
			if _, declared := doc.Networks[network]; !declared {
				return &UnresolvedReferenceError{Kind: "network", Service: name, Name: network}
			}
			if topology.ClassifyNetwork(network) == domain.NetworkPublic {
				onPublic = true
			}
		}

		// Exposure invariants: a public service must be reachable through
		// the ingress network, and an internal service must never be.
		if exposure[name] && !onPublic {
			return &SchemaError{Field: "services." + name + ".networks", Message: "exposed service is not on a public network"}
		}
		if !exposure[name] && onPublic {
			return &SchemaError{Field: "services." + name + ".networks", Message: "internal service must not join a public network"}
		}

		for _, secret := range fragment.Secrets {
			if _, declared := doc.Secrets[secret.Source]; !declared {
				return &UnresolvedReferenceError{Kind: "secret", Service: name, Name: secret.Source}
			}
		}

		for _, volume := range fragment.NamedVolumes() {
			if _, declared := doc.Volumes[volume]; !declared {
				return &UnresolvedReferenceError{Kind: "volume", Service: name, Name: volume}
			}
		}
	}

	return nil
}

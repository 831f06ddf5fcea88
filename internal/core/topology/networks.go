package topology

import (
	"strings"

	"github.com/artpar/stackgen/internal/core/domain"
)

// =============================================================================
// Network Assignment
// =============================================================================

// Well-known network names.
const (
	// PublicNetworkName is the reverse-proxy ingress network. It is
	// pre-provisioned in the cluster and always declared external.
	PublicNetworkName = "traefik-public"

	// InternalNetworkName is the default network for non-exposed
	// services.
	InternalNetworkName = "backend"
)

// NetworkDecl is one entry of the document-level network registry.
type NetworkDecl struct {
	Ref       domain.NetworkRef
	Driver    string
	Internal  bool
	External  bool
	Encrypted bool
}

// ClassifyNetwork derives a network kind from its name. The ingress
// network is public; names carrying cross-stack prefixes (shared-,
// external-) or a -db marker refer to pre-provisioned external
// networks; everything else is an internal overlay.
func ClassifyNetwork(name string) domain.NetworkKind {
	if name == PublicNetworkName {
		return domain.NetworkPublic
	}
	if strings.HasPrefix(name, "shared-") || strings.HasPrefix(name, "external-") || strings.Contains(name, "-db") {
		return domain.NetworkExternal
	}
	return domain.NetworkInternal
}

// assignNetworks fills a sealed service's network list when it declares
// none. Exposed services join the public network; internal services
// join the backend network. With network separation on, api and worker
// roles additionally join the backend network.
func assignNetworks(svc *domain.ServiceSpec, globals domain.Globals) {
	if len(svc.Networks) > 0 {
		return
	}

	if svc.Exposed() {
		svc.Networks = []string{PublicNetworkName}
		if globals.NetworkSeparation && domain.RoleOf(svc.Name) != domain.RoleGeneric {
			svc.Networks = append(svc.Networks, InternalNetworkName)
		}
		return
	}

	svc.Networks = []string{InternalNetworkName}
}

// declareNetwork builds the registry entry for a network name.
func declareNetwork(name string, globals domain.Globals) NetworkDecl {
	kind := ClassifyNetwork(name)
	decl := NetworkDecl{Ref: domain.NetworkRef{Name: name, Kind: kind}}

	switch kind {
	case domain.NetworkPublic, domain.NetworkExternal:
		decl.External = true
	case domain.NetworkInternal:
		decl.Driver = "overlay"
		decl.Internal = true
		decl.Encrypted = globals.NetworkSeparation
	}
	return decl
}

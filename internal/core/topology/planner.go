package topology

import (
	"fmt"

	"github.com/artpar/stackgen/internal/core/domain"
)

// =============================================================================
// Topology Planning
// =============================================================================

// VolumeDecl is one entry of the document-level volume registry.
type VolumeDecl struct {
	Name    string
	Driver  string
	Backup  bool
	Service string // the declaring service, recorded as a label
}

// Plan is the planner output: services with networks assigned and volume
// names disambiguated, plus the two registries in deterministic order.
type Plan struct {
	Services []domain.ServiceSpec
	Networks []NetworkDecl
	Volumes  []VolumeDecl
	Warnings []domain.Warning
}

// BuildPlan assigns networks, normalizes volumes and builds the shared
// registries. Services must already be sealed; inputs are copied, not
// mutated.
func BuildPlan(services []domain.ServiceSpec, globals domain.Globals) (*Plan, error) {
	plan := &Plan{Services: make([]domain.ServiceSpec, 0, len(services))}

	networkSeen := make(map[string]bool)
	addNetwork := func(name string) {
		if networkSeen[name] {
			return
		}
		networkSeen[name] = true
		plan.Networks = append(plan.Networks, declareNetwork(name, globals))
	}

	// The ingress network is always declared; external networks named in
	// the globals join the registry even when no service lists them yet.
	addNetwork(PublicNetworkName)
	for _, name := range globals.ExternalNetworks {
		addNetwork(name)
	}

	volumeSeen := make(map[string]*volumeOwner)
	for _, original := range services {
		svc := original.Clone()

		assignNetworks(&svc, globals)
		for _, name := range svc.Networks {
			addNetwork(name)
		}

		if err := planVolumes(&svc, globals, volumeSeen, plan); err != nil {
			return nil, err
		}

		plan.Services = append(plan.Services, svc)
	}

	return plan, nil
}

type volumeOwner struct {
	vol     domain.VolumeSpec
	service string
}

// planVolumes registers a service's named volumes, repairs unshared name
// reuse with a per-service rename, and injects the default persistence
// volume when the global flag asks for one.
func planVolumes(svc *domain.ServiceSpec, globals domain.Globals, seen map[string]*volumeOwner, plan *Plan) error {
	if len(svc.Volumes) == 0 && globals.VolumePersistence {
		svc.Volumes = []domain.VolumeSpec{{
			Name:   fmt.Sprintf("%s_%s_volume", svc.Name, globals.Tier),
			Path:   globals.VolumeDir,
			Backup: true,
		}}
	}

	for i := range svc.Volumes {
		vol := &svc.Volumes[i]
		if vol.Anonymous() {
			continue
		}
		if vol.Driver == "" {
			vol.Driver = "local"
		}

		owner, reused := seen[vol.Name]
		if !reused {
			seen[vol.Name] = &volumeOwner{vol: *vol, service: svc.Name}
			plan.Volumes = append(plan.Volumes, VolumeDecl{
				Name:    vol.Name,
				Driver:  vol.Driver,
				Backup:  vol.Backup,
				Service: svc.Name,
			})
			continue
		}

		if owner.vol.Shared && vol.Shared {
			if !owner.vol.SameMetadata(*vol) {
				return &ConflictError{
					Volume:        vol.Name,
					FirstService:  owner.service,
					SecondService: svc.Name,
				}
			}
			// Explicit sharing intent on both sides: one declaration.
			continue
		}

		// Reuse without sharing intent is a common mistake; keep the data
		// separate and tell the user about it.
		renamed := vol.Name + "-" + svc.Name
		plan.Warnings = append(plan.Warnings, domain.Warningf(domain.WarnVolumeRenamed,
			"volume %q is used by both %q and %q without shared intent; renamed to %q for %q",
			vol.Name, owner.service, svc.Name, renamed, svc.Name))
		vol.Name = renamed
		seen[renamed] = &volumeOwner{vol: *vol, service: svc.Name}
		plan.Volumes = append(plan.Volumes, VolumeDecl{
			Name:    renamed,
			Driver:  vol.Driver,
			Backup:  vol.Backup,
			Service: svc.Name,
		})
	}

	return nil
}

package manifest

import (
	"strings"
	"testing"

	"github.com/artpar/stackgen/internal/core/domain"
	"github.com/artpar/stackgen/internal/core/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func boolPtr(b bool) *bool { return &b }

func sealedService(name string) domain.ServiceSpec {
	exposed := false
	return domain.ServiceSpec{
		Name:               name,
		Image:              "registry.example.com/" + name + ":1",
		Expose:             &exposed,
		Replicas:           1,
		Networks:           []string{"backend"},
		Environment:        map[string]string{},
		DeploymentStrategy: domain.StrategyRolling,
	}
}

func baseParams(services ...domain.ServiceSpec) Params {
	return Params{
		Services: services,
		Globals:  domain.Globals{Tier: domain.TierDev, FQDN: "example.com"},
		Networks: []topology.NetworkDecl{
			{Ref: domain.NetworkRef{Name: "backend", Kind: domain.NetworkInternal}, Driver: "overlay", Internal: true},
		},
		Logging: LogSizing{MaxSize: "50m", MaxFile: "5"},
	}
}

// =============================================================================
// Assembly
// =============================================================================

func TestAssemble_ServiceOrderFollowsInput(t *testing.T) {
	doc := Assemble(baseParams(sealedService("zeta"), sealedService("alpha"), sealedService("mid")))

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, doc.Services.Names())

	rendered, err := doc.Render()
	require.NoError(t, err)
	text := string(rendered)
	assert.Less(t, strings.Index(text, "zeta:"), strings.Index(text, "alpha:"))
	assert.Less(t, strings.Index(text, "alpha:"), strings.Index(text, "mid:"))
}

func TestAssemble_EnvironmentEntries(t *testing.T) {
	svc := sealedService("api")
	svc.Environment = map[string]string{"Z_VAR": "z", "A_VAR": "a"}

	doc := Assemble(baseParams(svc))

	env := doc.Services.Get("api").Environment
	assert.Equal(t, []string{"SERVICE_NAME=api", "ENVIRONMENT=dev", "A_VAR=a", "Z_VAR=z"}, env)
}

func TestAssemble_RoutedServiceGetsDomainEnv(t *testing.T) {
	svc := sealedService("api")
	svc.Expose = boolPtr(true)
	svc.Domain = "api"
	svc.Port = 8080

	doc := Assemble(baseParams(svc))

	assert.Contains(t, doc.Services.Get("api").Environment, "DOMAIN=api-dev.example.com")
}

func TestAssemble_SecretRegistryIsExternal(t *testing.T) {
	p := baseParams(sealedService("api"))
	p.Secrets = []domain.SecretDeclaration{{Source: "db_password"}}

	doc := Assemble(p)

	require.Contains(t, doc.Secrets, "db_password")
	assert.True(t, doc.Secrets["db_password"].External)
}

func TestAssemble_VolumeRegistryLabels(t *testing.T) {
	p := baseParams(sealedService("db"))
	p.Globals.Tier = domain.TierProd
	p.Volumes = []topology.VolumeDecl{{Name: "pgdata", Driver: "local", Backup: true, Service: "db"}}

	doc := Assemble(p)

	vol, ok := doc.Volumes["pgdata"]
	require.True(t, ok)
	assert.Equal(t, "local", vol.Driver)
	assert.Equal(t, map[string]string{
		"service":     "db",
		"environment": "prod",
		"backup":      "true",
	}, vol.Labels)
}

func TestAssemble_LoggingBlock(t *testing.T) {
	p := baseParams(sealedService("api"))
	p.Globals.EnableLogging = true
	p.Logging = LogSizing{MaxSize: "10m", MaxFile: "3"}

	doc := Assemble(p)

	logging := doc.Services.Get("api").Logging
	require.NotNil(t, logging)
	assert.Equal(t, "json-file", logging.Driver)
	assert.Equal(t, "10m", logging.Options["max-size"])
	assert.Equal(t, "3", logging.Options["max-file"])
}

func TestAssemble_LoggingDisabled(t *testing.T) {
	p := baseParams(sealedService("api"))
	p.Globals.EnableLogging = false

	doc := Assemble(p)

	assert.Nil(t, doc.Services.Get("api").Logging)
}

// =============================================================================
// Deploy Block
// =============================================================================

func TestAssemble_RestartPolicy(t *testing.T) {
	doc := Assemble(baseParams(sealedService("api")))

	rp := doc.Services.Get("api").Deploy.RestartPolicy
	require.NotNil(t, rp)
	assert.Equal(t, "on-failure", rp.Condition)
	assert.Equal(t, "5s", rp.Delay)
	assert.Equal(t, 5, rp.MaxAttempts)
	assert.Equal(t, "120s", rp.Window)
}

func TestAssemble_ProdRollingUpdateConfig(t *testing.T) {
	p := baseParams(sealedService("api"))
	p.Globals.Tier = domain.TierProd

	doc := Assemble(p)
	deploy := doc.Services.Get("api").Deploy

	uc := deploy.UpdateConfig
	require.NotNil(t, uc)
	assert.Equal(t, 1, uc.Parallelism)
	assert.Equal(t, "30s", uc.Delay)
	assert.Equal(t, "rollback", uc.FailureAction)
	assert.Equal(t, "5m", uc.Monitor)
	assert.Equal(t, 0.1, uc.MaxFailureRatio)
	assert.Equal(t, "stop-first", uc.Order)

	rc := deploy.RollbackConfig
	require.NotNil(t, rc)
	assert.Equal(t, 1, rc.Parallelism)
	assert.Equal(t, "continue", rc.FailureAction)
}

func TestAssemble_DevRollingUpdateConfig(t *testing.T) {
	doc := Assemble(baseParams(sealedService("api")))
	deploy := doc.Services.Get("api").Deploy

	uc := deploy.UpdateConfig
	require.NotNil(t, uc)
	assert.Equal(t, 2, uc.Parallelism)
	assert.Equal(t, "10s", uc.Delay)
	assert.Equal(t, "30s", uc.Monitor)
	assert.Equal(t, 0.3, uc.MaxFailureRatio)

	assert.Nil(t, deploy.RollbackConfig, "rollback config is a prod-only shape")
}

func TestAssemble_BlueGreenUpdateConfig(t *testing.T) {
	svc := sealedService("api")
	svc.DeploymentStrategy = domain.StrategyBlueGreen

	doc := Assemble(baseParams(svc))
	deploy := doc.Services.Get("api").Deploy

	uc := deploy.UpdateConfig
	assert.Equal(t, 999, uc.Parallelism)
	assert.Equal(t, "0s", uc.Delay)
	assert.Equal(t, "start-first", uc.Order)
	assert.Contains(t, deploy.Labels, "stackgen.strategy=blue-green")
}

func TestAssemble_CanaryUpdateConfig(t *testing.T) {
	svc := sealedService("api")
	svc.DeploymentStrategy = domain.StrategyCanary

	doc := Assemble(baseParams(svc))
	deploy := doc.Services.Get("api").Deploy

	uc := deploy.UpdateConfig
	assert.Equal(t, 1, uc.Parallelism)
	assert.Equal(t, "5m", uc.Delay)
	assert.Equal(t, "pause", uc.FailureAction)
	assert.Equal(t, "10m", uc.Monitor)
	assert.Contains(t, deploy.Labels, "stackgen.strategy=canary")
}

func TestAssemble_RollingStrategyHasNoLabel(t *testing.T) {
	doc := Assemble(baseParams(sealedService("api")))

	for _, label := range doc.Services.Get("api").Deploy.Labels {
		assert.NotContains(t, label, StrategyLabelKey)
	}
}

func TestAssemble_PlacementConstraints(t *testing.T) {
	svc := sealedService("api")
	svc.Constraints = []string{"node.role == worker"}

	doc := Assemble(baseParams(svc))

	placement := doc.Services.Get("api").Deploy.Placement
	require.NotNil(t, placement)
	assert.Equal(t, []string{"node.role == worker"}, placement.Constraints)
}

func TestAssemble_ResourceLimitsWithoutReservations(t *testing.T) {
	svc := sealedService("api")
	svc.Resources = &domain.ResourceSpec{Limits: domain.ResourceBand{CPUs: "2.0", Memory: "2G"}}

	doc := Assemble(baseParams(svc))

	res := doc.Services.Get("api").Deploy.Resources
	require.NotNil(t, res)
	require.NotNil(t, res.Limits)
	assert.Equal(t, "2.0", res.Limits.CPUs)
	assert.Nil(t, res.Reservations)
}

func TestAssemble_ExplicitReservationsKept(t *testing.T) {
	svc := sealedService("api")
	svc.Resources = &domain.ResourceSpec{
		Limits:       domain.ResourceBand{CPUs: "2.0", Memory: "2G"},
		Reservations: &domain.ResourceBand{CPUs: "0.5", Memory: "512M"},
	}

	doc := Assemble(baseParams(svc))

	res := doc.Services.Get("api").Deploy.Resources
	require.NotNil(t, res.Reservations)
	assert.Equal(t, "0.5", res.Reservations.CPUs)
}

func TestAssemble_MonitoringLabels(t *testing.T) {
	svc := sealedService("worker")
	svc.Monitoring = boolPtr(true)
	svc.InternalPort = 9100

	doc := Assemble(baseParams(svc))

	labels := doc.Services.Get("worker").Deploy.Labels
	assert.Contains(t, labels, "prometheus.io/scrape=true")
	assert.Contains(t, labels, "prometheus.io/port=9100")
}

// =============================================================================
// Marshalling
// =============================================================================

func TestSecretMount_BareMarshalsAsScalar(t *testing.T) {
	out, err := yaml.Marshal([]SecretMount{{Source: "db_password"}})
	require.NoError(t, err)
	assert.Equal(t, "- db_password\n", string(out))
}

func TestSecretMount_DetailedMarshalsLongForm(t *testing.T) {
	mode := uint32(0o400)
	out, err := yaml.Marshal(SecretMount{
		Source: "api_api_key",
		Target: "/run/secrets/api_key",
		Mode:   &mode,
	})
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "source: api_api_key")
	assert.Contains(t, text, "target: /run/secrets/api_key")
	assert.Contains(t, text, "mode: 256") // 0o400
}

func TestServiceConfig_NamedVolumes(t *testing.T) {
	cfg := &ServiceConfig{Volumes: []string{
		"pgdata:/var/lib/postgresql/data",
		"/tmp/scratch",
		"./local:/mnt",
	}}

	assert.Equal(t, []string{"pgdata"}, cfg.NamedVolumes())
}

func TestDocument_RenderDeterministic(t *testing.T) {
	svc := sealedService("api")
	svc.Environment = map[string]string{"B": "2", "A": "1", "C": "3"}
	p := baseParams(svc)
	p.Secrets = []domain.SecretDeclaration{{Source: "s1"}, {Source: "s2"}}

	first, err := Assemble(p).Render()
	require.NoError(t, err)
	second, err := Assemble(p).Render()
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestDocument_RenderShape(t *testing.T) {
	doc := Assemble(baseParams(sealedService("api")))

	rendered, err := doc.Render()
	require.NoError(t, err)

	var round map[string]any
	require.NoError(t, yaml.Unmarshal(rendered, &round))
	assert.Equal(t, "3.8", round["version"])
	assert.Contains(t, round, "services")
	assert.Contains(t, round, "networks")
	assert.NotContains(t, round, "secrets", "empty registries are omitted")
}

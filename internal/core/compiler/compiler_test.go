package compiler

import (
	"strings"
	"testing"

	"github.com/artpar/stackgen/internal/core/domain"
	"github.com/artpar/stackgen/internal/core/secrets"
	"github.com/artpar/stackgen/internal/core/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// End-to-End Compilation
// =============================================================================

const prodAPIInput = `[{
  "service_name": "api",
  "image": "registry.example.com/api:1.2.3",
  "port": 8080,
  "domain": "api",
  "use_secrets": true,
  "environment": {"API_KEY": "plaintext", "DB_HOST": "db"},
  "env": "prod",
  "fqdn": "example.com"
}]`

func TestCompile_ProdAPIService(t *testing.T) {
	result, err := Compile([]byte(prodAPIInput), Options{})
	require.NoError(t, err)
	require.NotNil(t, result.Document)

	api := result.Document.Services.Get("api")
	require.NotNil(t, api)

	// Routing: prod hosts carry no tier suffix.
	labels := api.Deploy.Labels
	assert.Contains(t, labels, "traefik.enable=true")
	assert.Contains(t, labels, "traefik.http.routers.api.rule=Host(`api.example.com`)")
	assert.Contains(t, labels, "traefik.http.routers.api.tls.certresolver=cloudflare")
	assert.Contains(t, labels, "traefik.http.services.api.loadbalancer.server.port=8080")

	// Prod auto-enables the resilience middlewares and monitoring.
	assert.Contains(t, labels, "traefik.http.middlewares.api-retry.retry.attempts=3")
	assert.Contains(t, labels, "traefik.http.middlewares.api-ratelimit.ratelimit.average=100")
	assert.Contains(t, labels, "traefik.http.routers.api.middlewares=secureHeaders@file,api-retry,api-ratelimit")
	assert.Contains(t, labels, "prometheus.io/scrape=true")

	// Sensitive env became a file-mounted secret.
	assert.Contains(t, api.Environment, "API_KEY_FILE=/run/secrets/api_key")
	assert.NotContains(t, api.Environment, "API_KEY=plaintext")
	assert.Contains(t, api.Environment, "DB_HOST=db")
	require.Len(t, api.Secrets, 1)
	assert.Equal(t, "api_api_key", api.Secrets[0].Source)

	require.Contains(t, result.Document.Secrets, "api_api_key")
	assert.True(t, result.Document.Secrets["api_api_key"].External)

	// Prod placement and deploy shapes.
	require.NotNil(t, api.Deploy.Placement)
	assert.Contains(t, api.Deploy.Placement.Constraints, "node.role == worker")
	require.NotNil(t, api.Deploy.UpdateConfig)
	assert.Equal(t, 1, api.Deploy.UpdateConfig.Parallelism)
	assert.Equal(t, "30s", api.Deploy.UpdateConfig.Delay)
	require.NotNil(t, api.Deploy.RollbackConfig)

	// Prod log rotation sizing.
	require.NotNil(t, api.Logging)
	assert.Equal(t, "10m", api.Logging.Options["max-size"])
	assert.Equal(t, "3", api.Logging.Options["max-file"])

	// API role resource ceiling, never a reservation.
	require.NotNil(t, api.Deploy.Resources)
	assert.Equal(t, "2.0", api.Deploy.Resources.Limits.CPUs)
	assert.Nil(t, api.Deploy.Resources.Reservations)

	// Ingress network declared external.
	assert.True(t, result.Document.Networks["traefik-public"].External)
}

func TestCompile_DevDefaults(t *testing.T) {
	input := `[{"service_name": "api", "image": "app:1", "port": 8080}]`

	result, err := Compile([]byte(input), Options{})
	require.NoError(t, err)

	api := result.Document.Services.Get("api")
	labels := strings.Join(api.Deploy.Labels, "\n")

	assert.Contains(t, labels, "Host(`api-dev.example.com`)")
	assert.NotContains(t, labels, "retry.attempts", "dev leaves retry off")
	assert.NotContains(t, labels, "prometheus.io", "dev leaves monitoring off")
	assert.Nil(t, api.Deploy.RollbackConfig)
	assert.Equal(t, "50m", api.Logging.Options["max-size"])
	assert.Nil(t, api.Deploy.Placement)
}

func TestCompile_FormEquivalence(t *testing.T) {
	arrayForm := `[
	  {"service_name": "web", "image": "nginx:1", "port": 80, "domain": "web", "env": "staging", "fqdn": "example.org"},
	  {"service_name": "mailer-worker", "image": "app:1", "port": 9090, "expose": false}
	]`
	legacyForm := `{
	  "services": ["web", "mailer-worker"],
	  "images": {"web": "nginx:1", "mailer-worker": "app:1"},
	  "domains": ["web", ""],
	  "ports": [80, 9090],
	  "service_configs": {"mailer-worker": {"expose": false}},
	  "env": "staging",
	  "fqdn": "example.org"
	}`

	fromArray, err := Compile([]byte(arrayForm), Options{})
	require.NoError(t, err)
	fromLegacy, err := Compile([]byte(legacyForm), Options{})
	require.NoError(t, err)

	assert.Equal(t, string(fromArray.Rendered), string(fromLegacy.Rendered),
		"both input shapes compile to the same manifest")
}

func TestCompile_Deterministic(t *testing.T) {
	input := `[
	  {"service_name": "api", "image": "app:1", "port": 8080, "use_secrets": true,
	   "environment": {"B_TOKEN": "b", "A_KEY": "a", "PLAIN": "p"}},
	  {"service_name": "worker", "image": "app:1", "expose": false}
	]`

	first, err := Compile([]byte(input), Options{})
	require.NoError(t, err)
	second, err := Compile([]byte(input), Options{})
	require.NoError(t, err)

	assert.Equal(t, string(first.Rendered), string(second.Rendered))
}

func TestCompile_RenderedPassesSchemaGate(t *testing.T) {
	result, err := Compile([]byte(prodAPIInput), Options{})
	require.NoError(t, err)

	text := string(result.Rendered)
	assert.True(t, strings.HasPrefix(text, `version: "3.8"`))
	assert.Contains(t, text, "services:")
	assert.Contains(t, text, "networks:")
	assert.Contains(t, text, "secrets:")
}

// =============================================================================
// Overrides
// =============================================================================

func TestCompile_TierOverride(t *testing.T) {
	input := `[{"service_name": "api", "image": "app:1", "port": 8080, "env": "dev"}]`

	result, err := Compile([]byte(input), Options{Tier: "prod", FQDN: "example.net"})
	require.NoError(t, err)

	labels := strings.Join(result.Document.Services.Get("api").Deploy.Labels, "\n")
	assert.Contains(t, labels, "Host(`api.example.net`)")
	assert.NotNil(t, result.Document.Services.Get("api").Deploy.RollbackConfig)
}

func TestCompile_LoggingOverride(t *testing.T) {
	input := `[{"service_name": "api", "image": "app:1", "port": 8080}]`
	off := false

	result, err := Compile([]byte(input), Options{Logging: &off})
	require.NoError(t, err)

	assert.Nil(t, result.Document.Services.Get("api").Logging)
}

func TestCompile_StrategyOverride(t *testing.T) {
	input := `[{"service_name": "api", "image": "app:1", "port": 8080}]`

	result, err := Compile([]byte(input), Options{Strategy: "blue-green"})
	require.NoError(t, err)

	deploy := result.Document.Services.Get("api").Deploy
	assert.Equal(t, 999, deploy.UpdateConfig.Parallelism)
	assert.Contains(t, deploy.Labels, "stackgen.strategy=blue-green")
}

func TestCompile_CustomSecretPatterns(t *testing.T) {
	input := `[{"service_name": "api", "image": "app:1", "port": 8080, "use_secrets": true,
	  "environment": {"API_KEY": "a", "DB_CREDENTIAL": "b"}}]`

	result, err := Compile([]byte(input), Options{SecretPatterns: []string{"credential"}})
	require.NoError(t, err)

	api := result.Document.Services.Get("api")
	assert.Contains(t, api.Environment, "API_KEY=a", "default patterns are replaced, not merged")
	assert.Contains(t, api.Environment, "DB_CREDENTIAL_FILE=/run/secrets/db_credential")
}

// =============================================================================
// Failure Modes
// =============================================================================

func TestCompile_LoadErrorsPropagate(t *testing.T) {
	_, err := Compile([]byte("{broken"), Options{})
	assert.Error(t, err)
}

func TestCompile_SecretConflictAborts(t *testing.T) {
	input := `[
	  {"service_name": "api", "image": "app:1",
	   "secrets": [{"source": "tls_cert", "target": "/run/secrets/a.pem"}]},
	  {"service_name": "web", "image": "app:1",
	   "secrets": [{"source": "tls_cert", "target": "/run/secrets/b.pem"}]}
	]`

	_, err := Compile([]byte(input), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, secrets.ErrConflict)
}

func TestCompile_VolumeRenameWarning(t *testing.T) {
	input := `[
	  {"service_name": "api", "image": "app:1", "volumes": ["data:/data"]},
	  {"service_name": "reports", "image": "app:1", "volumes": ["data:/data"]}
	]`

	result, err := Compile([]byte(input), Options{})
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, domain.WarnVolumeRenamed, result.Warnings[0].Code)
	assert.Contains(t, result.Document.Volumes, "data")
	assert.Contains(t, result.Document.Volumes, "data-reports")
}

func TestCompile_SharedVolumeConflictAborts(t *testing.T) {
	input := `[
	  {"service_name": "api", "image": "app:1",
	   "volumes": [{"name": "uploads", "path": "/uploads", "shared": true, "driver": "local"}]},
	  {"service_name": "web", "image": "app:1",
	   "volumes": [{"name": "uploads", "path": "/uploads", "shared": true, "driver": "rexray"}]}
	]`

	_, err := Compile([]byte(input), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, topology.ErrConflict)
}

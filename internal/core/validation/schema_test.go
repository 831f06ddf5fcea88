package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Schema Round-Trip
// =============================================================================

const minimalManifest = `version: "3.8"
services:
  api:
    image: app:1
    networks:
      - backend
    deploy:
      replicas: 1
networks:
  backend:
    driver: overlay
`

func TestValidateRendered_AcceptsMinimalManifest(t *testing.T) {
	assert.NoError(t, ValidateRendered([]byte(minimalManifest)))
}

func TestValidateRendered_EmptyContent(t *testing.T) {
	err := ValidateRendered([]byte("  \n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchema)
}

func TestValidateRendered_NotYAML(t *testing.T) {
	err := ValidateRendered([]byte("{{{not yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchema)
}

func TestValidateRendered_NotAMapping(t *testing.T) {
	err := ValidateRendered([]byte("- just\n- a\n- list\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchema)
}

func TestValidateRendered_RejectsUnknownStructure(t *testing.T) {
	bad := `version: "3.8"
services:
  api:
    image: [not, a, string]
networks: {}
`
	err := ValidateRendered([]byte(bad))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchema)
}

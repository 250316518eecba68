package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryCatalog(t *testing.T) {
	reg := NewRegistry(nil, Services{})

	catalog := reg.Catalog()

	ids := make([]string, 0, len(catalog))
	for _, info := range catalog {
		ids = append(ids, info.ID)
	}

	assert.Equal(t, []string{"copyfield", "publish", "sanitize", "setfield", "taxonomies", "translate"}, ids)

	for _, info := range catalog {
		if info.ID == "sanitize" {
			assert.True(t, info.IsLegacy)
		}
	}
}

func TestNewPersistenceSelectsFileBackend(t *testing.T) {
	p, err := NewPersistence(context.Background(), nil, t.TempDir(), "en")

	require.NoError(t, err)
	assert.NoError(t, p.HealthCheck(context.Background()))
}

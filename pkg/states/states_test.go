package states_test

import (
	"testing"

	"github.com/Don-Green-Here/npdb/pkg/states"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var registryYAML = []byte(`
states:
  - code: NC
    name: North Carolina
    slug: NCplants
    active: true
  - code: VA
    name: Virginia
    slug: VAplants
    active: true
  - code: HI
    name: Hawaii
    slug: HIplants
    active: false
`)

func TestRegistryByCode(t *testing.T) {
	reg, err := states.New(registryYAML)
	require.NoError(t, err)

	st, ok := reg.ByCode("NC")
	require.True(t, ok)
	assert.Equal(t, "North Carolina", st.Name)
	assert.Equal(t, "NCplants", st.Slug)

	// lookup is case-insensitive and trims whitespace
	st, ok = reg.ByCode(" nc ")
	require.True(t, ok)
	assert.Equal(t, "NC", st.Code)

	_, ok = reg.ByCode("ZZ")
	assert.False(t, ok)
}

func TestRegistryActive(t *testing.T) {
	reg, err := states.New(registryYAML)
	require.NoError(t, err)

	assert.Equal(t, 3, reg.Len())

	active := reg.Active()
	require.Len(t, active, 2)
	// sorted by code
	assert.Equal(t, "NC", active[0].Code)
	assert.Equal(t, "VA", active[1].Code)
}

func TestRegistryValidation(t *testing.T) {
	tests := []struct {
		msg  string
		yaml string
	}{
		{"empty", "states: []"},
		{"bad code", "states:\n  - {code: nc, name: X, slug: Y}"},
		{"long code", "states:\n  - {code: ABC, name: X, slug: Y}"},
		{"missing slug", "states:\n  - {code: NC, name: X}"},
		{
			"duplicate code",
			"states:\n" +
				"  - {code: NC, name: X, slug: A}\n" +
				"  - {code: NC, name: Y, slug: B}",
		},
	}

	for _, tt := range tests {
		_, err := states.New([]byte(tt.yaml))
		assert.Error(t, err, tt.msg)
	}
}

package typeid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesPrefix(t *testing.T) {
	id := NewChartID()
	assert.True(t, strings.HasPrefix(id, PrefixChart+"_"))
	require.NoError(t, ValidateChartID(id))
	assert.NotEqual(t, id, NewChartID())
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name, id, prefix string
		ok               bool
	}{
		{"element", NewElementID(), PrefixElement, true},
		{"snapshot", NewSnapshotID(), PrefixSnapshot, true},
		{"wrong prefix", NewSnapshotID(), PrefixChart, false},
		{"garbage", "chart_missing", PrefixChart, false},
		{"empty", "", PrefixChart, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.id, tc.prefix)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidID)
		})
	}
}

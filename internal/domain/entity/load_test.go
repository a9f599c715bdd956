package entity_test

import (
	"testing"

	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsInsecureResponseCode(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		expected bool
	}{
		{"connection refused", -102, true},
		{"insecure response", -501, true},
		{"cert range start", -200, true},
		{"cert range end", -299, true},
		{"outside cert range", -300, false},
		{"tls handshake", -148, true},
		{"tls downgrade", -180, true},
		{"name not resolved", -105, false},
		{"timed out", -7, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, entity.IsInsecureResponseCode(tt.code))
		})
	}
}

func TestLoadFailure_Classify(t *testing.T) {
	t.Run("subframe failures are ignored", func(t *testing.T) {
		f := entity.LoadFailure{Code: -105, Description: "ERR_NAME_NOT_RESOLVED", IsMainFrame: false}
		assert.Nil(t, f.Classify())
	})

	t.Run("aborts are ignored by code", func(t *testing.T) {
		f := entity.LoadFailure{Code: -3, IsMainFrame: true}
		assert.Nil(t, f.Classify())
	})

	t.Run("aborts are ignored by description", func(t *testing.T) {
		f := entity.LoadFailure{Code: -1, Description: "ERR_ABORTED", IsMainFrame: true}
		assert.Nil(t, f.Classify())
	})

	t.Run("zero code is ignored", func(t *testing.T) {
		f := entity.LoadFailure{Code: 0, IsMainFrame: true}
		assert.Nil(t, f.Classify())
	})

	t.Run("connection refused is insecure", func(t *testing.T) {
		f := entity.LoadFailure{
			Code:         -102,
			Description:  "ERR_CONNECTION_REFUSED",
			ValidatedURL: "https://localhost:1/",
			IsMainFrame:  true,
		}
		le := f.Classify()
		require.NotNil(t, le)
		assert.True(t, le.IsInsecureResponse)
		assert.Equal(t, -102, le.ErrorCode)
		assert.Equal(t, "https://localhost:1/", le.ValidatedURL)
	})

	t.Run("other failures are not insecure", func(t *testing.T) {
		f := entity.LoadFailure{Code: -105, Description: "ERR_NAME_NOT_RESOLVED", IsMainFrame: true}
		le := f.Classify()
		require.NotNil(t, le)
		assert.False(t, le.IsInsecureResponse)
	})
}

func TestLoadPhase_String(t *testing.T) {
	assert.Equal(t, "idle", entity.LoadIdle.String())
	assert.Equal(t, "loading", entity.LoadLoading.String())
	assert.Equal(t, "receiving-assets", entity.LoadReceivingAssets.String())
}

package domain_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/fileflow/internal/core/domain"
)

func TestConfig_Normalize(t *testing.T) {
	t.Run("relative root becomes absolute", func(t *testing.T) {
		cfg, err := domain.Config{OutputRoot: "out"}.Normalize()
		require.NoError(t, err)

		wd, err := os.Getwd()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(wd, "out"), cfg.OutputRoot)
		assert.Equal(t, domain.RunInfoShort, cfg.RunInfo)
	})

	t.Run("home directory is expanded", func(t *testing.T) {
		home, err := os.UserHomeDir()
		if err != nil {
			t.Skip("no home directory")
		}

		cfg, err := domain.Config{OutputRoot: "~/artifacts", RunInfo: domain.RunInfoOff}.Normalize()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "artifacts"), cfg.OutputRoot)
		assert.Equal(t, domain.RunInfoOff, cfg.RunInfo)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     domain.Config
		wantErr bool
	}{
		{"default", domain.DefaultConfig(), false},
		{"empty root", domain.Config{OutputRoot: "  "}, true},
		{"unknown run info", domain.Config{OutputRoot: "out", RunInfo: "verbose"}, true},
		{"full run info", domain.Config{OutputRoot: "out", RunInfo: domain.RunInfoFull}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrConfig))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestBecause(t *testing.T) {
	cause := errors.New("disk full")
	err := domain.Because(domain.ErrWrite, cause)

	assert.ErrorIs(t, err, domain.ErrWrite)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to write artifact: disk full", err.Error())
	assert.Equal(t, domain.ErrRead, domain.Because(domain.ErrRead, nil))
}

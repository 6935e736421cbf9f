package memconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Validate())
}

func TestValidateCollectsEveryError(t *testing.T) {
	cfg := Config{
		Mode:                "bogus",
		STMMaxLength:        0,
		StoragePath:         "",
		LTMEnabled:          true,
		BatchSize:           0,
		BatchTimeoutSeconds: 0,
	}
	errs := cfg.Validate()
	assert.GreaterOrEqual(t, len(errs), 5)
}

func TestAIModeRequiresAdapterName(t *testing.T) {
	cfg := Default()
	cfg.Mode = ModeAI
	errs := cfg.Validate()
	found := false
	for _, e := range errs {
		if e == "ai and hybrid modes require adapter_name" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestFromPresetAppliesOverrides(t *testing.T) {
	cfg, err := FromPreset(PresetChatbot, WithStoragePath("/tmp/custom.json"))
	require.NoError(t, err)
	assert.Equal(t, ModeHybrid, cfg.Mode)
	assert.Equal(t, "/tmp/custom.json", cfg.StoragePath)
}

func TestFromPresetUnknownName(t *testing.T) {
	_, err := FromPreset("nonexistent")
	assert.Error(t, err)
}

func TestAllPresetsValidate(t *testing.T) {
	for _, name := range PresetNames() {
		cfg, err := FromPreset(name)
		require.NoError(t, err)
		assert.Emptyf(t, cfg.Validate(), "preset %s should validate", name)
	}
}

package detect

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emirks/yokatlas-bridge/internal/provider"
)

func writeJSON(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	data, err := json.Marshal([]map[string]any{
		{"yop_kodu": "104110221", "uni_adi": "BOĞAZİÇİ ÜNİVERSİTESİ", "program_adi": "Bilgisayar Mühendisliği"},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func layoutModern(t *testing.T, root string) {
	writeJSON(t, root, "data/lisans_programs.json")
	writeJSON(t, root, "data/onlisans_programs.json")
}

func layoutObject(t *testing.T, root string) {
	writeJSON(t, root, "wizard/lisans_tercih_sihirbazi.json")
	writeJSON(t, root, "wizard/onlisans_tercih_sihirbazi.json")
}

func layoutModule(t *testing.T, root string) {
	writeJSON(t, root, "lisans/tercih_sihirbazi/table.json")
	writeJSON(t, root, "onlisans/tercih_sihirbazi/table.json")
}

func TestCapability_NoneInstalled(t *testing.T) {
	cap := Capability(Config{DataDir: t.TempDir(), BaseURL: "http://unused.localhost"})

	assert.False(t, cap.Available)
	assert.Equal(t, provider.GenerationNone, cap.Generation)
	assert.Nil(t, cap.Binding)
}

func TestCapability_DetectionOrder(t *testing.T) {
	tests := []struct {
		name   string
		layout func(*testing.T, string)
		want   provider.Generation
	}{
		{"modern only", layoutModern, provider.GenerationModern},
		{"object only", layoutObject, provider.GenerationLegacyObject},
		{"module only", layoutModule, provider.GenerationLegacyModule},
		{
			"modern wins over object",
			func(t *testing.T, root string) {
				layoutModern(t, root)
				layoutObject(t, root)
			},
			provider.GenerationModern,
		},
		{
			"object wins over module",
			func(t *testing.T, root string) {
				layoutObject(t, root)
				layoutModule(t, root)
			},
			provider.GenerationLegacyObject,
		},
		{
			"all three installed",
			func(t *testing.T, root string) {
				layoutModern(t, root)
				layoutObject(t, root)
				layoutModule(t, root)
			},
			provider.GenerationModern,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			tt.layout(t, root)

			cap := Capability(Config{DataDir: root, BaseURL: "http://unused.localhost"})

			require.True(t, cap.Available)
			assert.Equal(t, tt.want, cap.Generation)
			require.NotNil(t, cap.Binding)
			assert.Equal(t, tt.want, cap.Binding.Generation())
		})
	}
}

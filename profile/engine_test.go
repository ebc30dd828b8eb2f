package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandkit/models"
)

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	e, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, models.AllVariants(), e.Variants())
	assert.Equal(t, 1024, e.PNGWidth())
	assert.Equal(t, 512, e.IconSize())
	assert.True(t, e.TraceParams().Smooth)
}

func TestLoad_OverridesOnlyGivenFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	data := `
trace:
  colors: 3
  turd_size: 10
variants: [black, icon, black]
icon_size: 256
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	e, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []models.VariantKind{models.VariantBlack, models.VariantIcon}, e.Variants())
	assert.Equal(t, 256, e.IconSize())
	assert.Equal(t, 1024, e.PNGWidth())
	assert.Equal(t, 3, e.TraceParams().Colors)
	assert.Equal(t, 10, e.TraceParams().TurdSize)
	assert.Equal(t, 0.8, e.TraceParams().Tolerance)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"unknown variant": "variants: [sepia]\n",
		"bad icon":        "icon_size: 0\n",
		"bad padding":     "icon_padding: 0.7\n",
		"bad yaml":        "variants: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

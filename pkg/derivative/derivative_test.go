package derivative

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseQuality(t *testing.T) {
	tests := []struct {
		in   string
		want Quality
	}{
		{"thumb", Thumb},
		{"Low", Low},
		{" MEDIUM ", Medium},
		{"high", High},
		{"highest", Highest},
		{"ar", AR},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseQuality(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseQuality("ultra")
	assert.ErrorIs(t, err, ErrUnknownQuality)
}

func TestQualityLower(t *testing.T) {
	assert.Equal(t, Medium, High.Lower())
	assert.Equal(t, Thumb, Low.Lower())
	assert.Equal(t, Thumb, Thumb.Lower())
	assert.Equal(t, AR, AR.Lower())
}

func TestParseUsage(t *testing.T) {
	u, err := ParseUsage("Web3D")
	require.NoError(t, err)
	assert.Equal(t, Web3D, u)

	_, err = ParseUsage("hologram")
	assert.ErrorIs(t, err, ErrUnknownUsage)
}

func TestDerivativeYAML(t *testing.T) {
	src := `
usage: web3d
quality: medium
assets:
  - uri: model-medium.glb
    type: model
    byte_size: 1024
  - uri: diffuse-2048.jpg
    type: image
    image_size: 2048
`
	var d Derivative
	require.NoError(t, yaml.Unmarshal([]byte(src), &d))
	assert.Equal(t, Web3D, d.Usage)
	assert.Equal(t, Medium, d.Quality)
	assert.Equal(t, 2048, d.ImageSize())
	assert.Equal(t, int64(1024), d.ByteSize())

	out, err := yaml.Marshal(&d)
	require.NoError(t, err)
	assert.Contains(t, string(out), "quality: medium")

	var bad Derivative
	assert.Error(t, yaml.Unmarshal([]byte("quality: ultra\n"), &bad))
}

func TestListSelect(t *testing.T) {
	l := NewList(
		&Derivative{Usage: Web3D, Quality: Thumb},
		&Derivative{Usage: Web3D, Quality: Medium},
		&Derivative{Usage: Web3D, Quality: Highest},
		&Derivative{Usage: App3D, Quality: High},
	)

	tests := []struct {
		name    string
		usage   Usage
		quality Quality
		want    Quality
		wantNil bool
	}{
		{name: "exact", usage: Web3D, quality: Medium, want: Medium},
		{name: "falls back lower", usage: Web3D, quality: High, want: Medium},
		{name: "falls back lower to thumb", usage: Web3D, quality: Low, want: Thumb},
		{name: "ar clamps to ladder", usage: Web3D, quality: AR, want: Highest},
		{name: "only higher available", usage: App3D, quality: Low, want: High},
		{name: "missing usage", usage: Print3D, quality: High, wantNil: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := l.Select(tt.usage, tt.quality)
			if tt.wantNil {
				assert.Nil(t, d)
				return
			}
			require.NotNil(t, d)
			assert.Equal(t, tt.want, d.Quality)
			assert.Equal(t, tt.usage, d.Usage)
		})
	}
}

func TestListAddReplaces(t *testing.T) {
	l := NewList(&Derivative{Usage: Web3D, Quality: Low})
	replacement := &Derivative{Usage: Web3D, Quality: Low, Assets: []Asset{{URI: "b.glb"}}}
	l.Add(replacement)

	assert.Equal(t, 1, l.Len())
	assert.Same(t, replacement, l.Get(Web3D, Low))
	assert.Equal(t, []Quality{Low}, l.Qualities(Web3D))
	assert.Len(t, l.ByUsage(Web3D), 1)
	assert.Empty(t, l.ByUsage(Web2D))
}

package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedTablesHaveSameKeys(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	require.True(t, c.Has("it"))
	require.True(t, c.Has("en"))

	for key := range c.tables["it"] {
		_, ok := c.tables["en"][key]
		assert.True(t, ok, "en is missing %s", key)
	}
	for key := range c.tables["en"] {
		_, ok := c.tables["it"][key]
		assert.True(t, ok, "it is missing %s", key)
	}
}

func TestLookupFallbacks(t *testing.T) {
	fsys := fstest.MapFS{
		"loc/it.yaml": {Data: []byte("nav:\n  home: Casa\n  only_it: Solo\n")},
		"loc/en.yaml": {Data: []byte("nav:\n  home: Home\n")},
	}
	c, err := LoadFS(fsys, "loc")
	require.NoError(t, err)

	assert.Equal(t, "Home", c.T("en", "nav.home"))
	assert.Equal(t, "Solo", c.T("en", "nav.only_it"))
	assert.Equal(t, "Casa", c.T("fr", "nav.home"))
	assert.Equal(t, "nav.missing", c.T("en", "nav.missing"))
	assert.Equal(t, "Casa", c.Table("it")("nav.home"))
}

func TestLoadRequiresFallbackTable(t *testing.T) {
	fsys := fstest.MapFS{"loc/en.yaml": {Data: []byte("a: b\n")}}
	_, err := LoadFS(fsys, "loc")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "In media risparmi il 40% del tempo amministrativo.",
		c.Format("it", "profession.savings", map[string]string{"Percent": "40"}))
}

func TestNegotiate(t *testing.T) {
	tests := []struct {
		name                             string
		explicit, stored, accept, defLoc string
		want                             string
	}{
		{"query wins", "en", "it", "it-IT", "it", "en"},
		{"cookie next", "", "en-GB", "it-IT", "it", "en"},
		{"unsupported query ignored", "de", "", "en-US,en;q=0.9", "it", "en"},
		{"accept-language", "", "", "fr-FR, en;q=0.8", "it", "en"},
		{"default", "", "", "", "en", "en"},
		{"garbage default", "", "", "", "xx-invalid-", "it"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Negotiate(tt.explicit, tt.stored, tt.accept, tt.defLoc))
		})
	}
}

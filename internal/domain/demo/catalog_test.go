package demo

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	fsys := fstest.MapFS{
		"customer-agents.html": {Data: []byte("<p>agents</p>")},
	}
	c := NewCatalog(fsys, Builtin...)

	d, data, err := c.Fragment("customer-agents")
	require.NoError(t, err)
	assert.Equal(t, "<p>agents</p>", string(data))
	assert.Equal(t, "Customer service agents", d.TitleFor("en"))
	assert.Equal(t, "Agenti per l'assistenza clienti", d.TitleFor("de"))

	_, _, err = c.Fragment("document-intake")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Lookup("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, c.All(), len(Builtin))
}

package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowList(t *testing.T) {
	list := NewAllowList([]string{" Boss@Studio.it ", "", "ops@studio.it"})

	assert.Equal(t, 2, list.Len())
	assert.True(t, list.IsAdmin("boss@studio.it"))
	assert.True(t, list.IsAdmin("BOSS@STUDIO.IT"))
	assert.True(t, list.IsAdmin(" ops@studio.it"))
	assert.False(t, list.IsAdmin("intern@studio.it"))
	assert.False(t, list.IsAdmin(""))
}

func TestEmptyAllowListAdmitsNobody(t *testing.T) {
	assert.False(t, NewAllowList(nil).IsAdmin("anyone@studio.it"))
}

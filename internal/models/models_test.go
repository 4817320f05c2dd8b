package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListValue(t *testing.T) {
	v, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = StringList{"flour", "sugar"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["flour","sugar"]`, v)
}

func TestStringListScan(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  StringList
	}{
		{name: "json text", value: `["a","b"]`, want: StringList{"a", "b"}},
		{name: "json bytes", value: []byte(`["c"]`), want: StringList{"c"}},
		{name: "null", value: nil, want: StringList{}},
		{name: "json null", value: "null", want: StringList{}},
		{name: "malformed", value: "flour, sugar", want: StringList{}},
		{name: "wrong shape", value: `{"a":1}`, want: StringList{}},
		{name: "unexpected type", value: int64(7), want: StringList{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := StringList{"stale"}
			require.NoError(t, list.Scan(tt.value))
			assert.Equal(t, tt.want, list)
		})
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "olasz", Slugify("Olasz"))
	assert.Equal(t, "késői-vacsora", Slugify("  Késői Vacsora "))
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("Admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)
	assert.True(t, role.CanManageCatalog())
	assert.True(t, role.CanManageUsers())

	role, err = ParseRole("User")
	require.NoError(t, err)
	assert.False(t, role.CanManageCatalog())
	assert.False(t, role.CanManageUsers())

	_, err = ParseRole("admin")
	assert.Error(t, err)
}

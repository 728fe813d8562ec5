package duck

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nt "combosearch/entity"
	"combosearch/field"
	"combosearch/recordlist"
)

const people = `{"name": "Al", "age": 30, "member": true}
{"name": "Bo", "age": 20, "member": false}
{"name": "Cy", "age": 30, "member": true}
`

func load(t *testing.T) *Duck {
	t.Helper()

	path := filepath.Join(t.TempDir(), "people.ndjson")
	require.NoError(t, os.WriteFile(path, []byte(people), 0644))

	dk, err := New(context.Background(), nt.NopLogger{})
	require.NoError(t, err)
	t.Cleanup(dk.Close)

	require.NoError(t, dk.Load(path))
	assert.Equal(t, path, dk.Name())
	return dk
}

func TestLoad(t *testing.T) {
	dk := load(t)

	fields, err := dk.Fields()
	require.NoError(t, err)
	assert.Equal(t, []nt.Field{
		{Name: "name", Type: "VARCHAR"},
		{Name: "age", Type: "BIGINT"},
		{Name: "member", Type: "BOOLEAN"},
	}, fields)

	lines, err := dk.Lines()
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, "Bo", lines[1].Get(0).String())

	age, err := lines[1].Get(1).Int()
	require.NoError(t, err)
	assert.Equal(t, 20, age)
}

func TestLoadMissing(t *testing.T) {

	dk, err := New(context.Background(), nt.NopLogger{})
	require.NoError(t, err)
	defer dk.Close()

	err = dk.Load(filepath.Join(t.TempDir(), "nope.ndjson"))
	assert.Error(t, err)
	assert.Equal(t, "", dk.Name())
}

func TestKind(t *testing.T) {

	assert.Equal(t, field.KindText, Kind("VARCHAR"))
	assert.Equal(t, field.KindInt, Kind("bigint"))
	assert.Equal(t, field.KindFloat, Kind("DOUBLE"))
	assert.Equal(t, field.KindBool, Kind("BOOLEAN"))
	assert.Equal(t, field.KindTime, Kind("TIMESTAMP"))
	assert.Equal(t, field.KindOther, Kind("STRUCT(a INTEGER)"))
}

func TestRegistryDrivesList(t *testing.T) {
	dk := load(t)

	fields, err := dk.Fields()
	require.NoError(t, err)
	lines, err := dk.Lines()
	require.NoError(t, err)

	reg, err := Registry(fields)
	require.NoError(t, err)

	list := recordlist.New(reg)
	list.AddRange(lines...)

	require.NoError(t, list.SetFilter("age>25 AND member=true"))
	require.Equal(t, 2, list.Len())

	require.NoError(t, list.ApplySort("name", nt.Descending))
	first, ok := list.At(0)
	require.True(t, ok)
	assert.Equal(t, "Cy", first.Get(0).String())

	assert.Equal(t, 1, list.Find("name", "Al"))
}

package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type thing struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestStore_WriteReadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	in := []thing{{ID: "a", Name: "first"}, {ID: "b", Name: "second"}}
	require.NoError(t, s.Write("things.json", in))

	var out []thing
	require.NoError(t, s.Read("things.json", &out))
	require.Equal(t, in, out)
}

func TestStore_MissingFileIsEmpty(t *testing.T) {
	s := newTestStore(t)

	var out []thing
	require.NoError(t, s.Read("never-written.json", &out))
	require.Nil(t, out)
}

func TestStore_CorruptFileIsEmpty(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "things.json"), []byte("{not json"), 0o644))

	var out []thing
	require.NoError(t, s.Read("things.json", &out))
	require.Nil(t, out)
}

func TestStore_WritePrettyPrints(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Write("things.json", []thing{{ID: "a", Name: "first"}}))

	data, err := os.ReadFile(filepath.Join(dir, "things.json"))
	require.NoError(t, err)
	require.Contains(t, string(data), "  \"id\": \"a\"")
	require.Equal(t, byte('\n'), data[len(data)-1])
}

func TestStore_WriteOverwritesWholeFile(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Write("things.json", []thing{{ID: "a"}, {ID: "b"}}))
	require.NoError(t, s.Write("things.json", []thing{{ID: "c"}}))

	var out []thing
	require.NoError(t, s.Read("things.json", &out))
	require.Len(t, out, 1)
	require.Equal(t, "c", out[0].ID)
}

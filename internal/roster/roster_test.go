package roster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vote-dashboard-go/internal/types"
)

func TestDefaultRoster(t *testing.T) {
	r := Default()
	assert.Equal(t, 26, r.Len())
	assert.Equal(t, "JULIAN AGUILAR", r.Resolve("236669998"))
	assert.Equal(t, "ALICIA VARGAS", r.Resolve("23567744K"))
	assert.Equal(t, "VALENTIN VILLARROEL", r.Students()[25].Name)
}

func TestResolveIsTotal(t *testing.T) {
	r := Default()
	for _, id := range []string{"999999999", "", "  ", "236669998 ", "ñandú"} {
		assert.Equal(t, id, r.Resolve(id), "unknown id %q must map to itself", id)
	}

	var nilRoster *Roster
	assert.Equal(t, "236669998", nilRoster.Resolve("236669998"))
	assert.Zero(t, nilRoster.Len())
	assert.Nil(t, nilRoster.Students())
}

func TestStudentsReturnsCopy(t *testing.T) {
	r := Default()
	s := r.Students()
	s[0].Name = "changed"
	assert.Equal(t, "JULIAN AGUILAR", r.Resolve("236669998"))
	assert.Equal(t, "JULIAN AGUILAR", r.Students()[0].Name)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
		verify  func(t *testing.T, r *Roster)
	}{
		{
			name: "valid roster",
			yaml: `
students:
  - id: "1"
    name: " ANA "
  - id: "2"
    name: BEA
`,
			verify: func(t *testing.T, r *Roster) {
				assert.Equal(t, 2, r.Len())
				assert.Equal(t, "ANA", r.Resolve("1"))
				assert.Equal(t, "BEA", r.Resolve("2"))
			},
		},
		{
			name:    "empty roster",
			yaml:    "students: []",
			wantErr: "validate",
		},
		{
			name: "missing name",
			yaml: `
students:
  - id: "1"
`,
			wantErr: "Name",
		},
		{
			name: "duplicate id",
			yaml: `
students:
  - {id: "1", name: ANA}
  - {id: "1", name: BEA}
`,
			wantErr: `duplicate student id "1"`,
		},
		{
			name:    "not yaml",
			yaml:    "students: [",
			wantErr: "decode",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Parse([]byte(tt.yaml))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.verify(t, r)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "curso2.yaml")
	require.NoError(t, os.WriteFile(path, []byte("students:\n  - {id: \"7\", name: CARLA}\n"), 0o644))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "CARLA", r.Resolve("7"))

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New([]types.Student{{ID: "a", Name: "A"}, {ID: "a", Name: "B"}, {ID: "b", Name: "C"}, {ID: "b", Name: "D"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"a"`)
	assert.Contains(t, err.Error(), `"b"`)
}

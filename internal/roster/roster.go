// Package roster maps student ids to display names.
package roster

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"vote-dashboard-go/internal/types"
)

//go:embed default_roster.yaml
var defaultRoster []byte

var validate = validator.New(validator.WithRequiredStructEnabled())

type file struct {
	Students []types.Student `yaml:"students" validate:"required,min=1,dive"`
}

// Roster is an immutable id to name table.
type Roster struct {
	students []types.Student
	byID     map[string]string
}

// Default returns the roster compiled into the binary.
func Default() *Roster {
	r, err := Parse(defaultRoster)
	if err != nil {
		panic(fmt.Sprintf("embedded roster: %v", err))
	}
	return r
}

// Load reads and validates a YAML roster file.
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("roster %s: %w", path, err)
	}
	return r, nil
}

func Parse(data []byte) (*Roster, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	for i := range f.Students {
		f.Students[i].ID = strings.TrimSpace(f.Students[i].ID)
		f.Students[i].Name = strings.TrimSpace(f.Students[i].Name)
	}
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}
	return New(f.Students)
}

// New builds a roster from students. Ids must be unique.
func New(students []types.Student) (*Roster, error) {
	r := &Roster{
		students: make([]types.Student, 0, len(students)),
		byID:     make(map[string]string, len(students)),
	}
	var errs []error
	for _, s := range students {
		if _, dup := r.byID[s.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate student id %q", s.ID))
			continue
		}
		r.byID[s.ID] = s.Name
		r.students = append(r.students, s)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return r, nil
}

// Resolve returns the display name for id, or id itself when the roster
// does not know it.
func (r *Roster) Resolve(id string) string {
	if r == nil {
		return id
	}
	if name, ok := r.byID[id]; ok {
		return name
	}
	return id
}

func (r *Roster) Students() []types.Student {
	if r == nil {
		return nil
	}
	out := make([]types.Student, len(r.students))
	copy(out, r.students)
	return out
}

func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return len(r.students)
}

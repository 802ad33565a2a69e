// internal/form/definition.go
//
// Playground – Forms subsystem: YAML definition loader.
//
// Context
//   Each form's presentation is declared in a YAML file shipped with its
//   component: identifier, title, and the ordered fields with their labels,
//   input types, and hints.  Rules do NOT live here.  They live in the
//   component's Schema so one source drives both server validation and the
//   native constraint attributes the renderer emits.
//
// Workflow
//   •  LoadFormDef parses a single YAML file from an fs.FS and validates
//      structural rules.
//   •  RegisterForms walks a directory of an fs.FS, loads every “*.yaml”, and
//      adds the results to the registry.  Later registrations override
//      earlier ones with the same ID.
//   •  GetFormDef offers safe, read-only access to a parsed form by ID.
//
//------------------------------------------------------------------------------

package form

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------
// Data structures
// -----------------------------------------------------------------------------

// FormDef represents one form definition loaded from YAML.
//
// ID should be namespaced by component, e.g. “employee/edit”.
type FormDef struct {
	ID     string     `yaml:"id"`
	Title  string     `yaml:"title"`
	Fields []FieldDef `yaml:"fields"`
}

// FieldDef describes a single input control.
type FieldDef struct {
	Name         string `yaml:"name"`         // Submission key.  Required.
	Label        string `yaml:"label"`        // Human-readable label.  Required.
	Type         string `yaml:"type"`         // text, email, textarea.  Blank defers to the schema.
	Placeholder  string `yaml:"placeholder"`  // Optional placeholder text.
	Autocomplete string `yaml:"autocomplete"` // Optional, e.g. "off".
}

var supportedTypes = map[string]bool{
	"":         true,
	"text":     true,
	"email":    true,
	"textarea": true,
}

// -----------------------------------------------------------------------------
// Registry
// -----------------------------------------------------------------------------

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*FormDef)
)

// GetFormDef returns a parsed FormDef by ID.  The boolean is false when the
// ID is unknown.
func GetFormDef(id string) (*FormDef, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fd, ok := registry[id]
	return fd, ok
}

// Register inserts or overrides fd.  Caller must ensure it passed validation.
func Register(fd *FormDef) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[fd.ID] = fd
}

// -----------------------------------------------------------------------------
// Loader API
// -----------------------------------------------------------------------------

// LoadFormDef parses one YAML file and returns a validated FormDef.  It
// NEVER mutates the registry.
func LoadFormDef(fsys fs.FS, name string) (*FormDef, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read form file %s: %w", name, err)
	}

	var fd FormDef
	if err := yaml.Unmarshal(raw, &fd); err != nil {
		return nil, fmt.Errorf("parse YAML %s: %w", name, err)
	}

	if err := validateFormDef(&fd, name); err != nil {
		return nil, err
	}
	return &fd, nil
}

// RegisterForms loads every “*.yaml” under dir and registers it.  It fails
// fast on the first bad file so issues surface loudly at startup.
func RegisterForms(fsys fs.FS, dir string) ([]string, error) {
	var ids []string
	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || path.Ext(d.Name()) != ".yaml" {
			return nil
		}
		fd, err := LoadFormDef(fsys, p)
		if err != nil {
			return err
		}
		Register(fd)
		ids = append(ids, fd.ID)
		return nil
	})
	return ids, err
}

// -----------------------------------------------------------------------------
// Validation helpers
// -----------------------------------------------------------------------------

// validateFormDef enforces structural rules that cannot be expressed via YAML
// tags alone.
func validateFormDef(fd *FormDef, name string) error {
	if fd.ID == "" {
		return fmt.Errorf("form definition %s: missing required 'id'", name)
	}
	if len(fd.Fields) == 0 {
		return fmt.Errorf("form definition %s: must have 'fields'", name)
	}

	seen := make(map[string]struct{}, len(fd.Fields))
	for i := range fd.Fields {
		f := &fd.Fields[i]
		if err := validateField(f, name); err != nil {
			return err
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("form %s: duplicate field name '%s'", name, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

// validateField confirms that essential attributes are present and sane.
func validateField(f *FieldDef, name string) error {
	if f.Name == "" {
		return fmt.Errorf("form %s: field missing 'name'", name)
	}
	if reservedKey(f.Name) || strings.HasPrefix(f.Name, "__") {
		return fmt.Errorf("form %s: field name '%s' is reserved", name, f.Name)
	}
	if f.Label == "" {
		return fmt.Errorf("form %s: field '%s' missing 'label'", name, f.Name)
	}
	if !supportedTypes[f.Type] {
		return fmt.Errorf("form %s: field '%s' has unsupported type '%s'", name, f.Name, f.Type)
	}
	return nil
}

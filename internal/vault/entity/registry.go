package entity

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

var (
	// ErrDuplicateName indicates a credential with the same name already exists.
	ErrDuplicateName = errors.New("vault: credential already exists")
	// ErrNotFound indicates no credential has the requested name.
	ErrNotFound = errors.New("vault: credential not found")
	// ErrInvalidName indicates a blank credential name or one holding
	// control characters.
	ErrInvalidName = errors.New("vault: invalid credential name")
	// ErrCorruptStore indicates a persisted registry exists but cannot be decoded.
	ErrCorruptStore = errors.New("vault: registry is corrupt")
)

// Registry maps unique, case-sensitive names to credentials. The zero value
// is an empty registry ready to use. A Registry is not safe for concurrent use.
type Registry struct {
	items map[string]Credential
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]Credential)}
}

// NewRegistryFrom copies items into a new Registry.
func NewRegistryFrom(items map[string]Credential) (*Registry, error) {
	r := NewRegistry()
	for name, cred := range items {
		if err := checkName(name); err != nil {
			return nil, err
		}
		r.items[name] = cred
	}

	return r, nil
}

// Len returns the number of credentials.
func (r *Registry) Len() int {
	return len(r.items)
}

// Has reports whether name exists.
func (r *Registry) Has(name string) bool {
	_, ok := r.items[name]
	return ok
}

// Get returns the credential stored under name.
func (r *Registry) Get(name string) (Credential, error) {
	cred, ok := r.items[name]
	if !ok {
		return Credential{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	return cred, nil
}

// Insert adds cred under name unless the name is taken.
func (r *Registry) Insert(name string, cred Credential) error {
	if err := checkName(name); err != nil {
		return err
	}
	if r.Has(name) {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	if r.items == nil {
		r.items = make(map[string]Credential)
	}
	r.items[name] = cred

	return nil
}

// Remove deletes name.
func (r *Registry) Remove(name string) error {
	if !r.Has(name) {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	delete(r.items, name)
	return nil
}

// Rename moves the credential at oldName to newName. It never overwrites:
// an existing newName fails with ErrDuplicateName. Renaming a name to itself
// succeeds without changing anything, which is reported as changed=false.
func (r *Registry) Rename(oldName, newName string) (bool, error) {
	cred, err := r.Get(oldName)
	if err != nil {
		return false, err
	}
	if oldName == newName {
		return false, nil
	}
	if err := r.Insert(newName, cred); err != nil {
		return false, err
	}

	delete(r.items, oldName)
	return true, nil
}

// Names returns all names in ascending order.
func (r *Registry) Names() []string {
	names := lo.Keys(r.items)
	slices.Sort(names)
	return names
}

// All yields every credential in name order. The sequence reflects the
// registry at the time each iteration starts and may be ranged over repeatedly.
func (r *Registry) All() iter.Seq2[string, Credential] {
	return func(yield func(string, Credential) bool) {
		for _, name := range r.Names() {
			if !yield(name, r.items[name]) {
				return
			}
		}
	}
}

// Clone returns an independent copy.
func (r *Registry) Clone() *Registry {
	return &Registry{items: maps.Clone(r.items)}
}

// Equal reports whether both registries hold the same names and credentials.
func (r *Registry) Equal(other *Registry) bool {
	if other == nil {
		return r.Len() == 0
	}

	return maps.Equal(r.items, other.items)
}

// Map returns a copy of the underlying mapping.
func (r *Registry) Map() map[string]Credential {
	out := make(map[string]Credential, len(r.items))
	maps.Copy(out, r.items)
	return out
}

// ValidName reports whether name can address a credential: non-blank and
// free of control characters.
func ValidName(name string) bool {
	return strings.TrimSpace(name) != "" && !strings.ContainsFunc(name, unicode.IsControl)
}

func checkName(name string) error {
	if !ValidName(name) {
		return fmt.Errorf("%w: %q must be non-blank and contain no control characters", ErrInvalidName, name)
	}

	return nil
}

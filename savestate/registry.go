package savestate

import (
	"encoding/binary"
	"fmt"
)

// Registry aggregates the owners of a whole machine into one sectioned
// snapshot. Owners are serialized in the order they were added.
//
// Restore validates every section header before applying any section, and
// each section is applied through Owner.Restore, so a failed restore never
// leaves an owner partially updated. Owners preceding a failed section may
// already have been restored; callers that need whole-machine atomicity
// quiesce the machine and retry or reload from a known-good snapshot.
type Registry struct {
	owners []*Owner
	index  map[string]*Owner
}

// NewRegistry returns an empty owner registry.
func NewRegistry() *Registry {
	return &Registry{index: map[string]*Owner{}}
}

// Add registers an owner section. Adding two owners with the same name is an
// error.
func (r *Registry) Add(o *Owner) error {
	if _, ok := r.index[o.name]; ok {
		return fmt.Errorf("savestate: owner %q registered twice", o.name)
	}
	r.index[o.name] = o
	r.owners = append(r.owners, o)
	return nil
}

// Owner returns the owner registered under name, or nil.
func (r *Registry) Owner(name string) *Owner {
	return r.index[name]
}

// Snapshot serializes all owners: version byte, owner count, then per owner
// the name length, the name, the section length and the section blob.
func (r *Registry) Snapshot() []byte {
	blob := []byte{Version}
	blob = binary.LittleEndian.AppendUint16(blob, uint16(len(r.owners)))
	for _, o := range r.owners {
		section := o.Snapshot()
		blob = append(blob, byte(len(o.name)))
		blob = append(blob, o.name...)
		blob = binary.LittleEndian.AppendUint32(blob, uint32(len(section)))
		blob = append(blob, section...)
	}
	return blob
}

// Restore applies a sectioned snapshot produced by Snapshot.
func (r *Registry) Restore(blob []byte) error {
	if len(blob) < 3 {
		return fmt.Errorf("savestate: registry snapshot truncated")
	}
	if blob[0] != Version {
		return fmt.Errorf("savestate: unsupported registry snapshot version %d", blob[0])
	}
	count := int(binary.LittleEndian.Uint16(blob[1:3]))
	if count != len(r.owners) {
		return fmt.Errorf("savestate: registry snapshot has %d sections, %d registered",
			count, len(r.owners))
	}

	type section struct {
		owner *Owner
		blob  []byte
	}
	sections := make([]section, 0, count)

	rest := blob[3:]
	for i := 0; i < count; i++ {
		if len(rest) < 1 {
			return fmt.Errorf("savestate: registry snapshot truncated")
		}
		nameLen := int(rest[0])
		rest = rest[1:]
		if len(rest) < nameLen+4 {
			return fmt.Errorf("savestate: registry snapshot truncated")
		}
		name := string(rest[:nameLen])
		rest = rest[nameLen:]
		size := int(binary.LittleEndian.Uint32(rest[:4]))
		rest = rest[4:]
		if len(rest) < size {
			return fmt.Errorf("savestate: registry snapshot truncated in section %q", name)
		}
		owner, ok := r.index[name]
		if !ok {
			return fmt.Errorf("savestate: unknown snapshot section %q", name)
		}
		sections = append(sections, section{owner: owner, blob: rest[:size]})
		rest = rest[size:]
	}
	if len(rest) != 0 {
		return fmt.Errorf("savestate: %d trailing bytes in registry snapshot", len(rest))
	}

	for _, s := range sections {
		if err := s.owner.Restore(s.blob); err != nil {
			return err
		}
	}
	return nil
}

// Package savestate implements a named-field snapshot/restore registry.
//
// Each emulated subsystem registers its runtime state as a flat list of
// named fields once, at construction time. A snapshot serializes every
// registered field in registration order; a restore matches the serialized
// fields back by name and either applies all of them or none of them.
//
// The registry never owns the underlying storage. Fields are accessed
// through getter/setter closures while the owning subsystem is alive.
package savestate

import (
	"encoding/binary"
	"fmt"
)

// Version is the snapshot blob format version.
const Version = 1

const maxNameLen = 255

type field struct {
	name string
	size int
	get  func(dst []byte)
	put  func(src []byte)
}

// Owner holds the registered fields of a single subsystem.
type Owner struct {
	name   string
	fields []field
	index  map[string]int
}

// NewOwner returns an empty field registry section for the named subsystem.
func NewOwner(name string) *Owner {
	return &Owner{
		name:  name,
		index: map[string]int{},
	}
}

// Name returns the subsystem name the owner was created with.
func (o *Owner) Name() string {
	return o.name
}

// Register adds a field accessed through get and put. get fills dst with the
// field's current value, put applies src to the field; both buffers are
// exactly size bytes long. Registering the same name twice is an error.
func (o *Owner) Register(name string, size int, get func(dst []byte), put func(src []byte)) error {
	if name == "" || len(name) > maxNameLen {
		return fmt.Errorf("savestate: invalid field name %q", name)
	}
	if size <= 0 {
		return fmt.Errorf("savestate: invalid size %d for field %q", size, name)
	}
	if _, ok := o.index[name]; ok {
		return fmt.Errorf("savestate: field %q registered twice for %q", name, o.name)
	}
	o.index[name] = len(o.fields)
	o.fields = append(o.fields, field{name: name, size: size, get: get, put: put})
	return nil
}

// RegisterByte registers a single byte field backed by p.
func (o *Owner) RegisterByte(name string, p *byte) error {
	return o.Register(name, 1,
		func(dst []byte) { dst[0] = *p },
		func(src []byte) { *p = src[0] })
}

// RegisterBool registers a boolean field backed by p, stored as one byte.
func (o *Owner) RegisterBool(name string, p *bool) error {
	return o.Register(name, 1,
		func(dst []byte) {
			if *p {
				dst[0] = 1
			} else {
				dst[0] = 0
			}
		},
		func(src []byte) { *p = src[0] != 0 })
}

// RegisterUint16 registers a 16 bit field backed by p, stored little-endian.
func (o *Owner) RegisterUint16(name string, p *uint16) error {
	return o.Register(name, 2,
		func(dst []byte) { binary.LittleEndian.PutUint16(dst, *p) },
		func(src []byte) { *p = binary.LittleEndian.Uint16(src) })
}

// RegisterBytes registers a fixed-length byte buffer field. The registry
// keeps the slice header, not a copy: snapshots read through it and restores
// write through it.
func (o *Owner) RegisterBytes(name string, p []byte) error {
	return o.Register(name, len(p),
		func(dst []byte) { copy(dst, p) },
		func(src []byte) { copy(p, src) })
}

// Size returns the serialized size of a snapshot of this owner.
func (o *Owner) Size() int {
	n := 1 + 2 // version + entry count
	for _, f := range o.fields {
		n += 1 + len(f.name) + f.size
	}
	return n
}

// Snapshot serializes every registered field in registration order:
// version byte, entry count, then per entry the name length, the name and
// the raw field bytes.
func (o *Owner) Snapshot() []byte {
	blob := make([]byte, 0, o.Size())
	blob = append(blob, Version)
	blob = binary.LittleEndian.AppendUint16(blob, uint16(len(o.fields)))
	for _, f := range o.fields {
		blob = append(blob, byte(len(f.name)))
		blob = append(blob, f.name...)
		at := len(blob)
		blob = append(blob, make([]byte, f.size)...)
		f.get(blob[at:])
	}
	return blob
}

// Restore applies a snapshot previously produced by Snapshot. The whole blob
// is parsed and validated before any field is touched: a version or entry
// count mismatch, an unknown or repeated name, or trailing bytes reject the
// restore as a unit and leave the owner's state unchanged.
func (o *Owner) Restore(blob []byte) error {
	staged, err := o.parse(blob)
	if err != nil {
		return err
	}
	for i, f := range o.fields {
		f.put(staged[i])
	}
	return nil
}

// parse validates the blob against the registered fields and returns the
// raw bytes for each field, indexed like o.fields.
func (o *Owner) parse(blob []byte) ([][]byte, error) {
	if len(blob) < 3 {
		return nil, fmt.Errorf("savestate: %q: snapshot truncated", o.name)
	}
	if blob[0] != Version {
		return nil, fmt.Errorf("savestate: %q: unsupported snapshot version %d", o.name, blob[0])
	}
	count := int(binary.LittleEndian.Uint16(blob[1:3]))
	if count != len(o.fields) {
		return nil, fmt.Errorf("savestate: %q: snapshot has %d fields, %d registered",
			o.name, count, len(o.fields))
	}

	staged := make([][]byte, len(o.fields))
	rest := blob[3:]
	for i := 0; i < count; i++ {
		if len(rest) < 1 {
			return nil, fmt.Errorf("savestate: %q: snapshot truncated", o.name)
		}
		nameLen := int(rest[0])
		rest = rest[1:]
		if len(rest) < nameLen {
			return nil, fmt.Errorf("savestate: %q: snapshot truncated", o.name)
		}
		name := string(rest[:nameLen])
		rest = rest[nameLen:]

		idx, ok := o.index[name]
		if !ok {
			return nil, fmt.Errorf("savestate: %q: unknown field %q", o.name, name)
		}
		if staged[idx] != nil {
			return nil, fmt.Errorf("savestate: %q: field %q appears twice", o.name, name)
		}
		size := o.fields[idx].size
		if len(rest) < size {
			return nil, fmt.Errorf("savestate: %q: snapshot truncated in field %q", o.name, name)
		}
		staged[idx] = rest[:size]
		rest = rest[size:]
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("savestate: %q: %d trailing bytes in snapshot", o.name, len(rest))
	}
	return staged, nil
}

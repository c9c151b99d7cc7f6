package savestate

import (
	"bytes"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

type testState struct {
	reg    byte
	flag   bool
	word   uint16
	buffer [4]byte
}

func newTestOwner(t *testing.T, s *testState) *Owner {
	t.Helper()

	owner := NewOwner("test")
	assert.NoError(t, owner.RegisterByte("reg", &s.reg))
	assert.NoError(t, owner.RegisterBool("flag", &s.flag))
	assert.NoError(t, owner.RegisterUint16("word", &s.word))
	assert.NoError(t, owner.RegisterBytes("buffer", s.buffer[:]))
	return owner
}

func TestOwnerRegisterDuplicate(t *testing.T) {
	owner := NewOwner("test")
	var b byte
	assert.NoError(t, owner.RegisterByte("reg", &b))
	assert.Error(t, owner.RegisterByte("reg", &b))
}

func TestOwnerRegisterInvalid(t *testing.T) {
	owner := NewOwner("test")
	var b byte
	assert.Error(t, owner.RegisterByte("", &b))
	assert.Error(t, owner.Register("empty", 0, nil, nil))
}

func TestOwnerSnapshotRestoreRoundTrip(t *testing.T) {
	state := testState{reg: 0x42, flag: true, word: 0xBEEF, buffer: [4]byte{1, 2, 3, 4}}
	owner := newTestOwner(t, &state)

	blob := owner.Snapshot()
	assert.Equal(t, owner.Size(), len(blob))

	state = testState{}
	assert.NoError(t, owner.Restore(blob))
	assert.Equal(t, byte(0x42), state.reg)
	assert.True(t, state.flag)
	assert.Equal(t, uint16(0xBEEF), state.word)
	assert.Equal(t, [4]byte{1, 2, 3, 4}, state.buffer)
}

func TestOwnerRestoreRejects(t *testing.T) {
	state := testState{reg: 0x42, word: 0x1234}
	owner := newTestOwner(t, &state)
	good := owner.Snapshot()

	wrongVersion := append([]byte(nil), good...)
	wrongVersion[0] = Version + 1

	wrongCount := append([]byte(nil), good...)
	wrongCount[1] = 9

	unknownName := append([]byte(nil), good...)
	unknownName[4] ^= 0xFF

	tests := []struct {
		name string
		blob []byte
	}{
		{"empty", nil},
		{"wrong version", wrongVersion},
		{"count mismatch", wrongCount},
		{"unknown field name", unknownName},
		{"truncated", good[:len(good)-2]},
		{"trailing bytes", append(append([]byte(nil), good...), 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, owner.Restore(tt.blob))

			// a rejected restore leaves the state untouched
			assert.Equal(t, byte(0x42), state.reg)
			assert.Equal(t, uint16(0x1234), state.word)
		})
	}
}

func TestOwnerRestoreFromForeignOwner(t *testing.T) {
	state := testState{}
	owner := newTestOwner(t, &state)

	other := NewOwner("other")
	var b byte = 7
	assert.NoError(t, other.RegisterByte("other_reg", &b))

	assert.Error(t, owner.Restore(other.Snapshot()))
}

func TestRegistryAddDuplicate(t *testing.T) {
	registry := NewRegistry()
	assert.NoError(t, registry.Add(NewOwner("mapper")))
	assert.Error(t, registry.Add(NewOwner("mapper")))
	assert.True(t, registry.Owner("mapper") != nil)
	assert.True(t, registry.Owner("missing") == nil)
}

func TestRegistrySnapshotRestore(t *testing.T) {
	stateA := testState{reg: 1, word: 2}
	ownerA := newTestOwner(t, &stateA)

	var counter byte = 9
	ownerB := NewOwner("counter")
	assert.NoError(t, ownerB.RegisterByte("value", &counter))

	registry := NewRegistry()
	assert.NoError(t, registry.Add(ownerA))
	assert.NoError(t, registry.Add(ownerB))

	blob := registry.Snapshot()

	stateA = testState{}
	counter = 0
	assert.NoError(t, registry.Restore(blob))
	assert.Equal(t, byte(1), stateA.reg)
	assert.Equal(t, uint16(2), stateA.word)
	assert.Equal(t, byte(9), counter)
}

func TestRegistryRestoreRejects(t *testing.T) {
	var counter byte
	owner := NewOwner("counter")
	assert.NoError(t, owner.RegisterByte("value", &counter))

	registry := NewRegistry()
	assert.NoError(t, registry.Add(owner))
	good := registry.Snapshot()

	unknownSection := append([]byte(nil), good...)
	unknownSection[4] ^= 0xFF

	tests := []struct {
		name string
		blob []byte
	}{
		{"empty", nil},
		{"wrong version", bytes.Join([][]byte{{Version + 1}, good[1:]}, nil)},
		{"unknown section", unknownSection},
		{"truncated", good[:len(good)-1]},
		{"trailing bytes", append(append([]byte(nil), good...), 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, registry.Restore(tt.blob))
		})
	}
}

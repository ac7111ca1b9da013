package diff

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestIdentityPreservation(t *testing.T) {
	r := Strings([]string{"1", "2", "3"}, []string{"2", "3", "4"})

	assert.Equal(t, []int{0}, r.Remove)
	assert.Equal(t, []Pair{{New: 0, Old: 1}, {New: 1, Old: 2}}, r.Update)
	assert.Equal(t, []int{2}, r.Add)
}

func TestEmptyLists(t *testing.T) {
	t.Run("empty old", func(t *testing.T) {
		r := Strings(nil, []string{"a", "b"})
		assert.Equal(t, []int{0, 1}, r.Add)
		assert.Empty(t, r.Update)
		assert.Empty(t, r.Remove)
	})
	t.Run("empty new", func(t *testing.T) {
		r := Strings([]string{"a", "b"}, nil)
		assert.Empty(t, r.Add)
		assert.Empty(t, r.Update)
		assert.Equal(t, []int{0, 1}, r.Remove)
	})
}

func TestDuplicateKeysMatchFIFO(t *testing.T) {
	r := Strings([]string{"x", "y", "x", "x"}, []string{"x", "x", "z"})

	assert.Equal(t, []Pair{{New: 0, Old: 0}, {New: 1, Old: 2}}, r.Update)
	assert.Equal(t, []int{2}, r.Add)
	assert.Equal(t, []int{1, 3}, r.Remove)
}

func TestCallbackOrder(t *testing.T) {
	var events []string
	oldKeys := []string{"a", "b", "c"}
	newKeys := []string{"c", "d", "a"}

	New(len(oldKeys), len(newKeys),
		func(i int) string { return oldKeys[i] },
		func(i int) string { return newKeys[i] },
	).
		Add(func(n int) { events = append(events, "add:"+newKeys[n]) }).
		Update(func(n, o int) { events = append(events, "update:"+newKeys[n]) }).
		Remove(func(o int) { events = append(events, "remove:"+oldKeys[o]) }).
		Execute()

	assert.Equal(t, []string{"update:c", "add:d", "update:a", "remove:b"}, events)
}

func TestMissingCallbacksAreSkipped(t *testing.T) {
	var removed []int
	require.NotPanics(t, func() {
		New(2, 1, strconv.Itoa, strconv.Itoa).Remove(func(o int) { removed = append(removed, o) }).Execute()
	})
	assert.Equal(t, []int{1}, removed)
}

func TestCompleteness(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		gen := rapid.SliceOf(rapid.StringMatching(`[a-e]`))
		oldKeys := gen.Draw(t, "old")
		newKeys := gen.Draw(t, "new")

		r := Strings(oldKeys, newKeys)

		if len(r.Add)+len(r.Update) != len(newKeys) {
			t.Fatalf("add+update = %d, want %d", len(r.Add)+len(r.Update), len(newKeys))
		}
		if len(r.Update)+len(r.Remove) != len(oldKeys) {
			t.Fatalf("update+remove = %d, want %d", len(r.Update)+len(r.Remove), len(oldKeys))
		}

		seenOld := make(map[int]bool)
		for _, p := range r.Update {
			if oldKeys[p.Old] != newKeys[p.New] {
				t.Fatalf("update pairs %q with %q", newKeys[p.New], oldKeys[p.Old])
			}
			seenOld[p.Old] = true
		}
		for _, o := range r.Remove {
			if seenOld[o] {
				t.Fatalf("old index %d both updated and removed", o)
			}
			seenOld[o] = true
		}
		if len(seenOld) != len(oldKeys) {
			t.Fatalf("old indices covered %d, want %d", len(seenOld), len(oldKeys))
		}
	})
}

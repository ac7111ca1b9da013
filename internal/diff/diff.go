// Package diff matches an old keyed list against a new one so callers can
// keep element identity across data updates.
package diff

// KeyFunc returns the key of the item at index i.
type KeyFunc func(i int) string

// Pair links a new position to the old position it was matched with.
type Pair struct {
	New int
	Old int
}

// Result is the outcome of a diff as plain lists.
type Result struct {
	Add    []int
	Update []Pair
	Remove []int
}

// Differ is a one-shot builder: register callbacks, then Execute.
type Differ struct {
	oldCount int
	newCount int
	oldKey   KeyFunc
	newKey   KeyFunc

	add    func(newIndex int)
	update func(newIndex, oldIndex int)
	remove func(oldIndex int)
}

// New creates a differ over two lists of the given sizes.
func New(oldCount, newCount int, oldKey, newKey KeyFunc) *Differ {
	return &Differ{
		oldCount: oldCount,
		newCount: newCount,
		oldKey:   oldKey,
		newKey:   newKey,
	}
}

// Add registers the callback for keys only present in the new list.
func (d *Differ) Add(fn func(newIndex int)) *Differ {
	d.add = fn
	return d
}

// Update registers the callback for keys present in both lists.
func (d *Differ) Update(fn func(newIndex, oldIndex int)) *Differ {
	d.update = fn
	return d
}

// Remove registers the callback for keys only present in the old list.
func (d *Differ) Remove(fn func(oldIndex int)) *Differ {
	d.remove = fn
	return d
}

// Execute runs the diff. Add and update fire in new-list order; remove fires
// afterwards in old-list order. Duplicate keys match first-unused-old to
// first-new occurrence.
func (d *Differ) Execute() {
	queues := make(map[string][]int, d.oldCount)
	for i := 0; i < d.oldCount; i++ {
		k := d.oldKey(i)
		queues[k] = append(queues[k], i)
	}

	consumed := make([]bool, d.oldCount)
	for i := 0; i < d.newCount; i++ {
		k := d.newKey(i)
		q := queues[k]
		if len(q) == 0 {
			if d.add != nil {
				d.add(i)
			}
			continue
		}
		old := q[0]
		if len(q) == 1 {
			delete(queues, k)
		} else {
			queues[k] = q[1:]
		}
		consumed[old] = true
		if d.update != nil {
			d.update(i, old)
		}
	}

	if d.remove == nil {
		return
	}
	for i, used := range consumed {
		if !used {
			d.remove(i)
		}
	}
}

// Compute runs the diff and collects the three operation lists.
// Registered callbacks are replaced.
func (d *Differ) Compute() Result {
	var r Result
	d.Add(func(n int) { r.Add = append(r.Add, n) }).
		Update(func(n, o int) { r.Update = append(r.Update, Pair{New: n, Old: o}) }).
		Remove(func(o int) { r.Remove = append(r.Remove, o) }).
		Execute()
	return r
}

// Strings diffs two string slices by value.
func Strings(oldKeys, newKeys []string) Result {
	return New(len(oldKeys), len(newKeys),
		func(i int) string { return oldKeys[i] },
		func(i int) string { return newKeys[i] },
	).Compute()
}

package dirty

import (
	"reflect"
	"slices"

	"github.com/odvcencio/dirtyfx/pkg/observable"
)

// Hooks observe composite activity. They carry diagnostics only and never
// influence dirty computation.
type Hooks struct {
	OnRebase     func(members int)
	OnReset      func(members int)
	OnMembership func(members int)
}

// Composite aggregates trackables into one signal that is dirty while any
// member is dirty, and broadcasts Rebase and Reset to all members. Members
// are referenced, not owned. A Composite is itself Trackable, so composites
// nest.
//
// Every membership change rebuilds the aggregate binding over exactly the
// current members and disposes of the previous one, so removed members stop
// influencing the composite and are no longer retained by it.
//
// Members are identified with ==. Remove and Contains cannot match a member
// whose dynamic type is not comparable; use pointer Trackables.
type Composite struct {
	members   []Trackable
	aggregate *observable.Binding[bool]
	dirty     *observable.Value[bool]
	view      observable.Observable[bool]
	hooks     Hooks
}

// NewComposite creates a composite holding members.
func NewComposite(members ...Trackable) *Composite {
	c := &Composite{}
	c.dirty = observable.NewNamed(any(c), "dirty", false)
	c.view = observable.ReadOnly[bool](c.dirty)
	c.members = c.accept(nil, members)
	c.rebind()
	return c
}

// SetHooks installs diagnostic hooks.
func (c *Composite) SetHooks(h Hooks) {
	c.hooks = h
}

// Add appends a member.
func (c *Composite) Add(member Trackable) {
	c.AddAll(member)
}

// AddAll appends members in order.
func (c *Composite) AddAll(members ...Trackable) {
	next := c.accept(c.members, members)
	if len(next) == len(c.members) {
		return
	}
	c.members = next
	c.rebind()
}

// Remove drops the first occurrence of member. Removing a member that is not
// present does nothing.
func (c *Composite) Remove(member Trackable) {
	i := slices.IndexFunc(c.members, func(m Trackable) bool { return sameTrackable(m, member) })
	if i < 0 {
		return
	}
	c.members = slices.Delete(c.members, i, i+1)
	c.rebind()
}

// Clear removes all members. The composite becomes clean.
func (c *Composite) Clear() {
	if len(c.members) == 0 {
		return
	}
	c.members = nil
	c.rebind()
}

// Len returns the number of members.
func (c *Composite) Len() int {
	return len(c.members)
}

// Members returns a copy of the member list.
func (c *Composite) Members() []Trackable {
	return slices.Clone(c.members)
}

// Contains reports whether member is tracked. A member of a non-comparable
// type is never found.
func (c *Composite) Contains(member Trackable) bool {
	return slices.ContainsFunc(c.members, func(m Trackable) bool { return sameTrackable(m, member) })
}

// Rebase rebases every member.
func (c *Composite) Rebase() {
	members := slices.Clone(c.members)
	for _, m := range members {
		m.Rebase()
	}
	if c.hooks.OnRebase != nil {
		c.hooks.OnRebase(len(members))
	}
}

// Reset resets every member.
func (c *Composite) Reset() {
	members := slices.Clone(c.members)
	for _, m := range members {
		m.Reset()
	}
	if c.hooks.OnReset != nil {
		c.hooks.OnReset(len(members))
	}
}

// IsDirty reports whether any member is dirty. An empty composite is clean.
func (c *Composite) IsDirty() bool {
	return c.dirty.Get()
}

// Dirty returns the read-only aggregate signal.
func (c *Composite) Dirty() observable.Observable[bool] {
	return c.view
}

// Get is IsDirty, making the composite an observable.Observable[bool].
func (c *Composite) Get() bool {
	return c.dirty.Get()
}

// Subscribe registers an invalidation listener on the aggregate.
func (c *Composite) Subscribe(fn func()) observable.Subscription {
	return c.dirty.Subscribe(fn)
}

// OnChange registers a change listener on the aggregate.
func (c *Composite) OnChange(fn func(old, new bool)) observable.Subscription {
	return c.dirty.OnChange(fn)
}

func (c *Composite) rebind() {
	if c.aggregate != nil {
		c.aggregate.Dispose()
	}
	members := slices.Clone(c.members)
	deps := make([]observable.Dependency, len(members))
	for i, m := range members {
		deps[i] = m.Dirty()
	}
	c.aggregate = observable.NewBinding(func() bool {
		for _, m := range members {
			if m.IsDirty() {
				return true
			}
		}
		return false
	}, deps...)
	c.dirty.Bind(c.aggregate)
	if c.hooks.OnMembership != nil {
		c.hooks.OnMembership(len(members))
	}
}

// accept appends the usable entries of members to dst. Nil members are
// skipped, as is any member that is c or already contains c through nested
// composites, since it would make c its own member.
func (c *Composite) accept(dst, members []Trackable) []Trackable {
	out := slices.Clone(dst)
	for _, m := range members {
		if m == nil || c.reachableFrom(m, map[*Composite]bool{}) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// reachableFrom reports whether c is m or a member of m at any depth.
func (c *Composite) reachableFrom(m Trackable, seen map[*Composite]bool) bool {
	if sameTrackable(m, c) {
		return true
	}
	nested, ok := m.(*Composite)
	if !ok || seen[nested] {
		return false
	}
	seen[nested] = true
	for _, inner := range nested.members {
		if c.reachableFrom(inner, seen) {
			return true
		}
	}
	return false
}

func sameTrackable(a, b Trackable) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || !va.Comparable() {
		return false
	}
	return va.Equal(vb)
}

var (
	_ Trackable                   = (*Composite)(nil)
	_ observable.Observable[bool] = (*Composite)(nil)
)

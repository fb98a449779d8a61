package jsval

// Capability marks structural facts about an object that rules care about.
type Capability uint8

const (
	// CapHandleEvent is set when the object has a handleEvent member.
	CapHandleEvent Capability = 1 << iota
	// CapCallable is set on function values.
	CapCallable
)

// Object is a composite value with named members. Objects are created and
// filled by a single traversal and only read afterwards.
type Object struct {
	members map[string]Value
	order   []string
	caps    Capability
}

// NewObject returns an empty plain object.
func NewObject() *Object {
	return &Object{members: make(map[string]Value)}
}

// NewFunction returns an empty callable object.
func NewFunction() *Object {
	o := NewObject()
	o.caps |= CapCallable
	return o
}

// Set defines or replaces a member. Setting handleEvent marks the object
// with CapHandleEvent.
func (o *Object) Set(name string, v Value) {
	if _, ok := o.members[name]; !ok {
		o.order = append(o.order, name)
	}
	o.members[name] = v
	if name == "handleEvent" {
		o.caps |= CapHandleEvent
	}
}

// Member looks up a member by exact name.
func (o *Object) Member(name string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	v, ok := o.members[name]
	return v, ok
}

// Keys returns member names in definition order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.order))
	copy(out, o.order)
	return out
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.order)
}

// Has reports whether every bit of c is set.
func (o *Object) Has(c Capability) bool {
	return o != nil && o.caps&c == c
}

func (o *Object) Caps() Capability {
	if o == nil {
		return 0
	}
	return o.caps
}

package object

// Pool is a fixed-capacity arena of space objects.
type Pool struct {
	objects []SpaceObject
	live    int
}

// NewPool returns an empty pool with room for capacity objects.
func NewPool(capacity int) *Pool {
	p := &Pool{objects: make([]SpaceObject, capacity)}
	for i := range p.objects {
		p.objects[i].Index = i
	}
	return p
}

// Cap returns the pool's capacity.
func (p *Pool) Cap() int { return len(p.objects) }

// Len returns the number of occupied slots.
func (p *Pool) Len() int { return p.live }

// Alloc takes the lowest free slot, bumps its generation and returns it
// reset to Alive. It returns nil when the pool is full.
func (p *Pool) Alloc() *SpaceObject {
	for i := range p.objects {
		o := &p.objects[i]
		if o.State != Free {
			continue
		}
		*o = SpaceObject{
			Index:      i,
			ID:         o.ID + 1,
			State:      Alive,
			Owner:      -1,
			Target:     NoHandle,
			LastTarget: NoHandle,
			Dest:       NoHandle,
			Age:        -1,
			Occupier:   -1,
		}
		p.live++
		return o
	}
	return nil
}

// Free releases o's slot. Objects outside the pool are ignored.
func (p *Pool) Free(o *SpaceObject) {
	if o == nil || o.Index < 0 || o.Index >= len(p.objects) || &p.objects[o.Index] != o {
		return
	}
	if o.State == Free {
		return
	}
	o.State = Free
	p.live--
}

// Get resolves h. It returns nil if the slot is free or has been reused
// since h was taken.
func (p *Pool) Get(h Handle) *SpaceObject {
	if h.Index < 0 || h.Index >= len(p.objects) {
		return nil
	}
	o := &p.objects[h.Index]
	if o.State == Free || o.ID != h.ID {
		return nil
	}
	return o
}

// At returns the object in slot i, or nil if the slot is free.
func (p *Pool) At(i int) *SpaceObject {
	if i < 0 || i >= len(p.objects) || p.objects[i].State == Free {
		return nil
	}
	return &p.objects[i]
}

// Each calls fn for every occupied slot in index order.
func (p *Pool) Each(fn func(*SpaceObject)) {
	for i := range p.objects {
		if p.objects[i].State != Free {
			fn(&p.objects[i])
		}
	}
}

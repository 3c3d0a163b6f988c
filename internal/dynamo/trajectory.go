package dynamo

// Trajectory is a fixed-capacity ring of positions, always full.
// pos is the slot of the oldest point and the next slot to overwrite.
type Trajectory struct {
	data    []Vec3
	pos     int
	initial Vec3
}

// newTrajectory returns a trajectory holding capacity copies of initial.
// Capacity is at least one.
func newTrajectory(initial Vec3, capacity int) *Trajectory {
	capacity = max(capacity, 1)
	t := &Trajectory{data: make([]Vec3, capacity), initial: initial}
	t.Reset()
	return t
}

// Reset refills the buffer with the initial condition.
func (t *Trajectory) Reset() {
	for i := range t.data {
		t.data[i] = t.initial
	}
	t.pos = 0
}

// Push appends p and evicts the oldest point.
func (t *Trajectory) Push(p Vec3) {
	t.data[t.pos] = p
	t.pos++
	if t.pos == len(t.data) {
		t.pos = 0
	}
}

func (t *Trajectory) Len() int      { return len(t.data) }
func (t *Trajectory) Initial() Vec3 { return t.initial }

// At returns the i-th point counting from the oldest.
func (t *Trajectory) At(i int) Vec3 {
	return t.data[(t.pos+i)%len(t.data)]
}

// Head returns the most recent point.
func (t *Trajectory) Head() Vec3 {
	return t.At(len(t.data) - 1)
}

// Points copies the buffer out, oldest first.
func (t *Trajectory) Points() []Vec3 {
	out := make([]Vec3, len(t.data))
	n := copy(out, t.data[t.pos:])
	copy(out[n:], t.data[:t.pos])
	return out
}

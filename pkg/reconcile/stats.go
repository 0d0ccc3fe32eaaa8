package reconcile

// Stats counts the work done by one render cycle.
type Stats struct {
	Mounted      int // live nodes created
	Unmounted    int // shadow records released with their live nodes
	Replaced     int // shape changes swapped in place
	Moved        int // keyed nodes relocated among their siblings
	TextUpdates  int
	AttrWrites   int // attributes, properties and style entries written
	AttrRemovals int // attributes and style entries removed
	Patched      int // elements updated in place
}

// Mutations returns the number of live-tree changes. A render that changes
// nothing reports zero.
func (s Stats) Mutations() int {
	return s.Mounted + s.Unmounted + s.Replaced + s.Moved +
		s.TextUpdates + s.AttrWrites + s.AttrRemovals
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Mounted += o.Mounted
	s.Unmounted += o.Unmounted
	s.Replaced += o.Replaced
	s.Moved += o.Moved
	s.TextUpdates += o.TextUpdates
	s.AttrWrites += o.AttrWrites
	s.AttrRemovals += o.AttrRemovals
	s.Patched += o.Patched
}

package replay

// Cause says why a frame is rendered.
type Cause int

const (
	// CauseNavigate is a move change; it may play audio.
	CauseNavigate Cause = iota
	// CauseForce re-renders the same move after a display change; always silent.
	CauseForce
)

func (c Cause) String() string {
	if c == CauseForce {
		return "force"
	}
	return "navigate"
}

// Step is the outcome of a cursor move.
type Step struct {
	Changed bool
	Index   int
	Render  bool
	Cause   Cause
}

// Cursor is the index of the displayed move, in [-1, Len-1]. -1 is the
// starting position.
type Cursor struct {
	store *Store
	index int
}

func NewCursor(store *Store) *Cursor {
	return &Cursor{store: store, index: -1}
}

func (c *Cursor) Index() int { return c.index }

// GoTo clamps requested into range and moves there. Staying put renders
// nothing unless force is set, in which case a silent re-render is requested.
func (c *Cursor) GoTo(requested int, force bool) Step {
	target := c.clamp(requested)
	if target == c.index {
		if !force {
			return Step{Index: target}
		}
		return Step{Index: target, Render: true, Cause: CauseForce}
	}
	c.index = target
	return Step{Changed: true, Index: target, Render: true, Cause: CauseNavigate}
}

func (c *Cursor) Prev() Step  { return c.GoTo(c.index-1, false) }
func (c *Cursor) Next() Step  { return c.GoTo(c.index+1, false) }
func (c *Cursor) First() Step { return c.GoTo(-1, false) }
func (c *Cursor) Last() Step  { return c.GoTo(c.store.Len()-1, false) }

// Reset puts the cursor back at the starting position without rendering.
func (c *Cursor) Reset() { c.index = -1 }

func (c *Cursor) clamp(i int) int {
	last := c.store.Len() - 1
	if i > last {
		i = last
	}
	if i < -1 {
		i = -1
	}
	return i
}

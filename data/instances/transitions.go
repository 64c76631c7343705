package instances

// Transition is one operation of a stack-based tree encoder.
//
// A linearized tree is consumed by executing its transitions left to right:
// Shift pushes the next element onto the encoder stack, Reduce2 combines the
// top two stack entries and Reduce3 the top three.
type Transition int

const (
	Shift Transition = iota
	Reduce2
	Reduce3
)

func (t Transition) String() string {
	switch t {
	case Shift:
		return "S"
	case Reduce2:
		return "R2"
	case Reduce3:
		return "R3"
	default:
		return "?"
	}
}

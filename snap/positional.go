package snap

// slotAssignment is the token positions given to one positional argument.
type slotAssignment struct {
	arg       *Argument
	positions []int
}

// allocate assigns positional token positions to slots in declaration
// order. Single slots take one token each; the repeating slot takes what is
// left once one token is reserved for every single slot declared after it.
// It returns the assignments, the unassigned positions and the first
// required slot that got nothing.
func allocate(slots []*Argument, positions []int) ([]slotAssignment, []int, *Argument) {
	var (
		out     []slotAssignment
		missing *Argument
		k       int
	)
	for si, slot := range slots {
		var take int
		if slot.IsArray() {
			reserve := len(slots) - si - 1
			take = max(0, len(positions)-k-reserve)
		} else if k < len(positions) {
			take = 1
		}
		if take == 0 {
			if slot.Required && missing == nil {
				missing = slot
			}
			continue
		}
		out = append(out, slotAssignment{arg: slot, positions: positions[k : k+take]})
		k += take
	}
	return out, positions[k:], missing
}

// Package fsm provides a small table-driven finite state machine helper.
//
// A state machine is declared as a slice of Transition indexed by the current
// state selector. Each Transition names the states it may exit to; Update
// refuses transitions outside the table.
package fsm

type selector interface {
	~int
}

// StateM is implemented by types whose state is driven through Update.
type StateM[Sel selector] interface {
	State() Sel
	SetState(s Sel)
}

// TransitionFunc computes the next state for s after receiving evt.
type TransitionFunc[Sel selector, S StateM[Sel], Evt any] func(s S, evt Evt) (Sel, error)

// Transition describes the handling of one state.
type Transition[Sel selector, S StateM[Sel], Evt any] struct {
	Call TransitionFunc[Sel, S, Evt]
	Exit []Sel
}

// Update dispatches evt through the trs transition table.
// The new state is committed only if the Call succeeds and the exit state is
// listed in the current Transition Exit set.
func Update[Sel selector, S StateM[Sel], Evt any](s S, trs []Transition[Sel, S, Evt], evt Evt) error {
	sel := s.State()
	if sel < 0 || int(sel) >= len(trs) {
		return newError("invalid inner state %d", sel)
	}

	tr := trs[int(sel)]
	if nil == tr.Call {
		return newError("no transition allowed from state %d", sel)
	}

	next, err := tr.Call(s, evt)
	if nil != err {
		return err
	}

	var allowed bool
	for _, exit := range tr.Exit {
		if exit == next {
			allowed = true
			break
		}
	}
	if !allowed {
		return newError("exit state %d not allowed from state %d", next, sel)
	}

	s.SetState(next)

	return nil
}

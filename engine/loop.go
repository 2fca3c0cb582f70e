package engine

import (
	"github.com/tvmkit/tvm/control"
)

// AGAIN/REPEAT/UNTIL/WHILE, grounded on
// original_source/src/executor/continuation.rs's loop opcodes. Each is
// built the same way: pop the loop's continuation(s) off the data
// stack, install a "loop marker" continuation (control.Type's
// AgainLoopBody/RepeatLoopBody/UntilLoopCondition/WhileLoopCondition
// kinds) as the body's return address, and let the engine's jump/
// enterLoop pair re-enter the body or fall through to the code that
// follows the loop. A marker is never itself executed as code — jump
// intercepts it (engine.go) and dispatches here instead.
func init() {
	bind(0xE4, opAgain)
	bind(0xE5, opUntil)
	bind(0xE6, opWhile)
	bind(0xE7, opRepeat)
}

// loopMarker builds a Continuation whose Type.Kind is one of the loop
// kinds; it carries Body/Cond/Counter directly on Type, and stashes the
// continuation to resume once the loop is done in its own SaveList at
// c0 (a convenient reuse of the field every Continuation already has,
// rather than adding an extra field to control.Type for it).
func loopMarker(kind control.Kind, body, cond *control.Continuation, counter int64, after *control.Continuation) *control.Continuation {
	m := &control.Continuation{Type: control.Type{Kind: kind, Body: body, Cond: cond, Counter: counter}}
	m.Save.Put(control.RegC0, after)
	return m
}

func loopAfter(marker *control.Continuation) *control.Continuation {
	v, ok := marker.Save.Get(control.RegC0)
	if !ok {
		return control.NewQuit(0)
	}
	c, _ := v.(*control.Continuation)
	return c
}

// enterLoop is what jump() dispatches to when the target continuation
// is a loop marker: it decides, for the loop kind in question, whether
// to run the body (again) or fall through to whatever continuation was
// current when the loop started.
func (e *Engine) enterLoop(marker *control.Continuation) error {
	after := loopAfter(marker)
	switch marker.Type.Kind {
	case control.AgainLoopBody:
		return e.jump(e.callBody(marker.Type.Body, marker))

	case control.RepeatLoopBody:
		if marker.Type.Counter <= 0 {
			return e.jump(after)
		}
		next := loopMarker(control.RepeatLoopBody, marker.Type.Body, nil, marker.Type.Counter-1, after)
		return e.jump(e.callBody(marker.Type.Body, next))

	case control.UntilLoopCondition:
		n, err := popInt(e, "UNTIL")
		if err != nil {
			return err
		}
		if n.Sign() == 0 {
			return e.jump(e.callBody(marker.Type.Body, marker))
		}
		return e.jump(after)

	case control.WhileLoopCondition:
		n, err := popInt(e, "WHILE")
		if err != nil {
			return err
		}
		if n.Sign() == 0 {
			return e.jump(after)
		}
		// The condition just ran (that's the only time a
		// WhileLoopCondition marker is ever entered); its flag was
		// nonzero, so run the body once more, then re-evaluate the
		// condition with this same marker as its return address.
		return e.jump(e.callBody(marker.Type.Body, e.callBody(marker.Type.Cond, marker)))
	}
	return nil
}

func opAgain(e *Engine, _ byte) error {
	body, err := popContinuation(e, "AGAIN")
	if err != nil {
		return err
	}
	marker := loopMarker(control.AgainLoopBody, body, nil, 0, e.cc)
	return e.jump(e.callBody(body, marker))
}

func opUntil(e *Engine, _ byte) error {
	body, err := popContinuation(e, "UNTIL")
	if err != nil {
		return err
	}
	marker := loopMarker(control.UntilLoopCondition, body, nil, 0, e.cc)
	return e.jump(e.callBody(body, marker))
}

func opWhile(e *Engine, _ byte) error {
	body, err := popContinuation(e, "WHILE")
	if err != nil {
		return err
	}
	cond, err := popContinuation(e, "WHILE")
	if err != nil {
		return err
	}
	marker := loopMarker(control.WhileLoopCondition, body, cond, 0, e.cc)
	return e.jump(e.callBody(cond, marker))
}

func opRepeat(e *Engine, _ byte) error {
	n, err := popInt(e, "REPEAT")
	if err != nil {
		return err
	}
	body, err := popContinuation(e, "REPEAT")
	if err != nil {
		return err
	}
	if n.Sign() <= 0 {
		return nil
	}
	marker := loopMarker(control.RepeatLoopBody, body, nil, n.Int64()-1, e.cc)
	return e.jump(e.callBody(body, marker))
}

package core

import "testing"

func TestInputFrame(t *testing.T) {
	var f InputFrame
	if !f.Empty() {
		t.Error("zero InputFrame should be empty")
	}
	if f.Has(ActionReveal) {
		t.Error("zero InputFrame should not have actions")
	}

	f.Set(ActionReveal)
	f.Set(ActionLeft)
	if !f.Has(ActionReveal) || !f.Has(ActionLeft) {
		t.Error("Set actions should be reported by Has")
	}
	if f.Empty() {
		t.Error("frame with actions should not be empty")
	}

	f.Clear()
	if !f.Empty() {
		t.Error("Clear should remove every action")
	}
}

func TestActionString(t *testing.T) {
	if ActionPeek.String() != "Peek" {
		t.Errorf("ActionPeek.String() = %q", ActionPeek.String())
	}
	if Action(99).String() != "Unknown" {
		t.Errorf("Action(99).String() = %q", Action(99).String())
	}
}

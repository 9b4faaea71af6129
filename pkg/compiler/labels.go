package compiler

import "fmt"

// Label names a jump target. Every label a branch refers to must be
// declared by exactly one NADA marker in the same program.
type Label int

func (l Label) String() string {
	return fmt.Sprintf("L%d", int(l))
}

// LabelAllocator issues labels 1, 2, 3, ... for one translation run.
type LabelAllocator struct {
	next Label
}

func NewLabelAllocator() *LabelAllocator {
	return &LabelAllocator{next: 1}
}

// Fresh returns a label that has never been issued before.
func (a *LabelAllocator) Fresh() Label {
	l := a.next
	a.next++
	return l
}

// Issued reports how many labels have been handed out.
func (a *LabelAllocator) Issued() int {
	return int(a.next) - 1
}

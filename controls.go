package pixfx

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/soypat/geometry/ms2"
)

// Control represents an editable parameter of a filter.
// When Value is modified via OnChange, the next Apply call uses the new value.
type Control interface {
	// Display/human readable name and description.
	Describe() (name, description string)
	// ActualValue returns the current value of the control.
	ActualValue() any
	// ChangeValue attempts to update the ActualValue to newValue.
	ChangeValue(newValue any) error
}

type ControlOrdered[T cmp.Ordered] struct {
	Name        string
	Description string
	Value       T
	Min         T
	Max         T
	Step        T
	OnChange    func(T) error
}

func (co *ControlOrdered[T]) Describe() (name, description string) {
	return co.Name, co.Description
}
func (co *ControlOrdered[T]) ActualValue() any { return co.Value }
func (co *ControlOrdered[T]) ChangeValue(newValue any) error {
	v, ok := newValue.(T)
	if !ok {
		return fmt.Errorf("new value %T not of type %T", newValue, co.Value)
	}
	if v < co.Min || v > co.Max {
		return fmt.Errorf("%w: new value %v exceeds limits %v..%v", ErrInvalidParameter, v, co.Min, co.Max)
	}
	err := co.OnChange(v)
	if err == nil {
		co.Value = v
	}
	return err
}

type integer interface {
	~int | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~int8 | ~int16 | ~int32 | ~int64
}

// enum best generated with stringer commands.
type enum interface {
	integer
	fmt.Stringer
}

// ControlEnum maps to dropdown kind of list.
type ControlEnum[T enum] struct {
	Name        string
	Description string
	Value       T
	ValidValues []T
	OnChange    func(T) error
}

func (ce *ControlEnum[T]) Describe() (name, description string) {
	return ce.Name, ce.Description
}
func (ce *ControlEnum[T]) ActualValue() any {
	return ce.Value
}
func (ce *ControlEnum[T]) ChangeValue(newValue any) error {
	v, ok := newValue.(T)
	if !ok {
		return fmt.Errorf("new value %T not of type %T", newValue, ce.Value)
	}
	if !slices.Contains(ce.ValidValues, v) {
		return fmt.Errorf("%w: value %v of %T not valid", ErrInvalidParameter, v, v)
	}
	err := ce.OnChange(v)
	if err == nil {
		ce.Value = v
	}
	return err
}

// ControlVec is a 2D direction control, e.g. the light direction of a relief filter.
// Zero vectors are rejected.
type ControlVec struct {
	Name        string
	Description string
	Value       ms2.Vec
	OnChange    func(ms2.Vec) error
}

func (cv *ControlVec) Describe() (name, description string) {
	return cv.Name, cv.Description
}

func (cv *ControlVec) ActualValue() any {
	return cv.Value
}

func (cv *ControlVec) ChangeValue(newValue any) error {
	v, ok := newValue.(ms2.Vec)
	if !ok {
		return fmt.Errorf("new value %T not of type ms2.Vec", newValue)
	}
	if v == (ms2.Vec{}) {
		return fmt.Errorf("%w: zero direction vector", ErrInvalidParameter)
	}
	err := cv.OnChange(v)
	if err == nil {
		cv.Value = v
	}
	return err
}

package ast

import "fmt"

type UnitType struct{}

type IntegralType struct {
	// старший бит — знак, остальные — ширина
	SignWidth uint32
}

type StringType struct{}

type ClassType struct {
	Decl Ref `ir:"use"`
	Name string
}

type ListType struct {
	Elem Ref `ir:"child"`
}

const signBit = uint32(1) << 31

// PackSignWidth combines signedness and bit width into one word.
func PackSignWidth(signed bool, width uint32) uint32 {
	if width&signBit != 0 {
		panic(fmt.Sprintf("integral width %d out of range", width))
	}
	if signed {
		return signBit | width
	}
	return width
}

func (t *IntegralType) Signed() bool  { return t.SignWidth&signBit != 0 }
func (t *IntegralType) Width() uint32 { return t.SignWidth &^ signBit }

func (*UnitType) Class() ClassID     { return ClassUnitType }
func (*IntegralType) Class() ClassID { return ClassIntegralType }
func (*StringType) Class() ClassID   { return ClassStringType }
func (*ClassType) Class() ClassID    { return ClassClassType }
func (*ListType) Class() ClassID     { return ClassListType }

func (*UnitType) isType()     {}
func (*IntegralType) isType() {}
func (*StringType) isType()   {}
func (*ClassType) isType()    {}
func (*ListType) isType()     {}

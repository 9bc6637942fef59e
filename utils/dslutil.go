package utils

import (
	"fmt"
	"unsafe"

	V "hairsim.com/hairsim/vector"
)

//TransferFloats streams count floats from src into a raw pointer, typically a mapped
//graphics buffer. The destination must hold at least count float32 values.
func TransferFloats(dst unsafe.Pointer, src []float32, count int) error {
	if dst == nil {
		return fmt.Errorf("no valid pointer to graphics memory")
	}
	if count < 0 || count > len(src) {
		return fmt.Errorf("size of float buffer transfer out of bounds: %d (have %d)", count, len(src))
	}
	if count == 0 {
		return nil
	}
	copy(unsafe.Slice((*float32)(dst), count), src[:count])
	return nil
}

//Flatten packs a position list into x,y,z triples, appending to dst
func Flatten(dst []float32, pos []V.Vec32) []float32 {
	for _, p := range pos {
		dst = append(dst, p[0], p[1], p[2])
	}
	return dst
}

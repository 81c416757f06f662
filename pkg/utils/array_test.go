package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIota(t *testing.T) {
	assert.Equal(t, []int{0, 2, 4}, Iota(3, func(i int) int { return 2 * i }))
	assert.Empty(t, Iota(0, func(i int) int { return i }))
}

func TestGenMap(t *testing.T) {
	words := []string{"add", "addi", "j"}

	assert.Equal(t, map[int]string{3: "add", 4: "addi", 1: "j"}, GenMap(words, func(s string) int { return len(s) }))
	assert.Equal(t, map[string]int{"add": 3, "addi": 4, "j": 1}, GenMapValues(words,
		func(s string) string { return s },
		func(s string) int { return len(s) }))
}

func TestReduce(t *testing.T) {
	masks := []uint32{0xfc000000, 0x0000003f, 0x03e00000}

	assert.Equal(t, uint32(0xffe0003f), Reduce(masks, func(mask uint32, result uint32) uint32 { return result | mask }))
	assert.Equal(t, uint32(0), Reduce([]uint32{}, func(mask uint32, result uint32) uint32 { return result | mask }))
}

func TestMax(t *testing.T) {
	assert.Equal(t, 7, Max([]int{3, 7, -1}))
	assert.Equal(t, "rt", Max([]string{"rd", "rs", "rt"}))
}

func TestMinIndexBy(t *testing.T) {
	length := func(s string) int { return len(s) }

	assert.Equal(t, -1, MinIndexBy([]string{}, length))
	assert.Equal(t, 0, MinIndexBy([]string{"sll", "nop", "add.s"}, length), "ties resolve to the first item")
	assert.Equal(t, 2, MinIndexBy([]string{"beq", "bgez", "b"}, length))
}

func TestMakeError(t *testing.T) {
	errFoo := errors.New("foo")
	err := MakeError(errFoo, "value %v, name '%v'", 42, "bar")

	assert.ErrorIs(t, err, errFoo)
	assert.EqualError(t, err, "foo: value 42, name 'bar'")
}

func TestPair(t *testing.T) {
	p := MakePair("rt", int64(-3))

	assert.Equal(t, "rt", p.First)
	assert.Equal(t, int64(-3), p.Second)
	assert.Equal(t, "(rt, -3)", p.String())
}

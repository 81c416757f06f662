package utils

import (
	"golang.org/x/exp/constraints"
)

// Generates a sequence of n elements given a generation function
func Iota[T any](n int, gen func(int) T) []T {
	values := make([]T, n)

	for i := range values {
		values[i] = gen(i)
	}

	return values
}

// Generates a map from a sequence of items and a function that generates a key from an item
func GenMap[T any, Key comparable](input []T, keyFunc func(T) Key) map[Key]T {
	output := make(map[Key]T, len(input))

	for _, value := range input {
		output[keyFunc(value)] = value
	}

	return output
}

// Reduces a sequence to a value given an accumulation function
func Reduce[T any, U any](input []T, foldFunc func(T, U) U) U {
	var result U

	for _, value := range input {
		result = foldFunc(value, result)
	}

	return result
}

// Returns the biggest item of a sequence
func Max[T constraints.Ordered](input []T) T {
	max := input[0]

	for _, item := range input {
		if item > max {
			max = item
		}
	}

	return max
}

// Returns the index of the first item with the smallest key, or -1 if the sequence is empty
func MinIndexBy[T any, K constraints.Ordered](input []T, key func(T) K) int {
	best := -1

	for i, item := range input {
		if best < 0 || key(item) < key(input[best]) {
			best = i
		}
	}

	return best
}

// Generates a map from a sequence of items, with functions generating the key and the value of each item
func GenMapValues[T any, Key comparable, Value any](input []T, keyFunc func(T) Key, valueFunc func(T) Value) map[Key]Value {
	output := make(map[Key]Value, len(input))

	for _, item := range input {
		output[keyFunc(item)] = valueFunc(item)
	}

	return output
}

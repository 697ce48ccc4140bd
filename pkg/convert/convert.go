// Copyright (c) 2026 Scolara. All rights reserved.
// Author: kiet.vo.sg@gmail.com

/*
Package convert provides fault-tolerant string conversions for contexts where
a bad value should fall back to a default instead of erroring, such as query
parameter parsing in API handlers.

Do not use this package if distinguishing between malformed data and zero
values matters; use [strconv] directly there.
*/
package convert

import (
	"strconv"
)

// ToInt converts a string to an integer, silencing parsing errors.
// It returns 0 if the string is empty or cannot be parsed.
func ToInt(s string) int {
	if s == "" {
		return 0
	}

	v, _ := strconv.Atoi(s)
	return v
}

// ToIntD converts a string to an int, returning the provided default if
// parsing fails or the string is empty.
func ToIntD(str string, def int) int {
	if str == "" {
		return def
	}

	if v, err := strconv.Atoi(str); err == nil {
		return v
	}

	return def
}

// ToFloat64D converts a string to a float64, returning the provided default
// if parsing fails or the string is empty.
func ToFloat64D(str string, def float64) float64 {
	if str == "" {
		return def
	}

	if v, err := strconv.ParseFloat(str, 64); err == nil {
		return v
	}

	return def
}

// ToBool parses a boolean string ("true", "1", "false", "0").
// It returns false on empty string or parse error.
func ToBool(s string) bool {
	if s == "" {
		return false
	}

	v, _ := strconv.ParseBool(s)
	return v
}

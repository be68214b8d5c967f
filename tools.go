//go:build tools
// +build tools

// Package tools tracks the code generators used by go generate (mockgen),
// so go.mod and go.sum stay in sync on a fresh checkout.
package tools

import (
	_ "go.uber.org/mock/mockgen"
)

//go:build !debug

// Package debug gates development trace output. Enabled is a build
// time constant, so in a normal build the guarded call sites compile
// away entirely.
package debug

const Enabled = false

func Printf(f string, args ...interface{}) {}

func Dump(v ...interface{}) {}

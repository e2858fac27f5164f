// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
)

// Writer registries (format → handler). Formats register in init() blocks
// from the node and round writer files.
var (
	NodeWriters  = map[string]func(w io.Writer, data interface{}) error{}
	RoundWriters = map[string]func(w io.Writer, data interface{}) error{}
)

// Register helpers (idempotent last-wins)
func RegisterNode(format string, fn func(io.Writer, interface{}) error)  { NodeWriters[format] = fn }
func RegisterRound(format string, fn func(io.Writer, interface{}) error) { RoundWriters[format] = fn }

// Dispatch helpers used by the export tool.
func WriteNode(format string, w io.Writer, payload interface{}) error {
	fn, ok := NodeWriters[format]
	if !ok {
		return fmt.Errorf("unknown node format %q (no writer registered)", format)
	}
	return fn(w, payload)
}

func WriteRound(format string, w io.Writer, payload interface{}) error {
	fn, ok := RoundWriters[format]
	if !ok {
		return fmt.Errorf("unknown round format %q (no writer registered)", format)
	}
	return fn(w, payload)
}

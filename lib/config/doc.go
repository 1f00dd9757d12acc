// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the shapes
// client.
//
// Configuration comes from at most one file, named by the --config flag
// (via [LoadFile]) or the SHAPES_CONFIG environment variable (via
// [Load]). With neither, [Default] is used unchanged. Values present in
// the file override defaults field by field; unknown keys are an error
// so a misspelled option is reported instead of silently ignored.
//
// After loading, ${HOME} and ${VAR:-default} patterns in path fields
// are expanded, and the whole struct is checked with
// go-playground/validator. Validation failures are collected into a
// single [ValidationErrors] naming every bad field by its YAML path.
//
// Key exports:
//
//   - [Config] -- shape, topic, keyboard, reader, bus, and log sections
//   - [Default] -- the built-in configuration
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other internal packages except
// lib/shape, for the list of valid colors.
package config

// Package model defines the build-artifact model shared by the resolution
// engine and its collaborators.
//
// A build is made of scopes (independent projects), each of which may
// participate in the native component model. Native components produce
// binaries, and binaries declare forward dependencies on other binaries.
// The types here are the contract between the per-scope registries that
// enumerate this data and the engines that consume it; they carry no graph
// logic of their own.
package model

// Package store declares the block-store capability set this module relies
// on as an external collaborator, and provides Recorder, a wrapper that
// transparently observes every block an application reads or writes through
// it. A generator.Generator constructs proofs entirely out of what a
// Recorder has observed.
package store

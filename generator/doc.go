// Package generator builds inclusion proofs out of a store.Recorder's
// witness table: the set of blocks an application has read or written while
// answering some request. Given the bytes of a leaf the application already
// touched, Generator climbs from that leaf to an ancestor by repeatedly
// scanning witnessed blocks for a link back to the current node, stopping
// either at the highest connectable ancestor or at a caller-chosen root.
package generator

// Package autoplay plays 2048 games without a human.
//
// A Runner drives one game with a Strategy and audits the board after every
// move: the score never decreases, a reported move changes the grid, every
// tile is a power of two and a changed grid gains exactly one new tile. A
// Batch runs many games on a bounded worker pool and summarises them.
// CheckMechanics replays a handful of fixed positions as a quick self-test.
package autoplay

// Package robots is the built-in catalog of manipulator geometries: a few
// industrial six-axis arms, the canonical test bots for each axis pattern,
// and seven-axis arms reduced to six by locking one joint.
//
// Catalog entries are constructed on demand; chains are immutable, so a
// returned Robot can be shared freely.
package robots

// Package store defines the data-access contract for the VoiceDesk
// persistence layer.
//
// A single Store interface enumerates every persistence operation. Two
// adapters implement it: an embedded in-process SQLite backend
// (store/sqlite) and a remote HTTP-backed one (store/remote). Callers
// hold one adapter, selected at startup, and never branch on which
// backend they got — both must behave identically, including the
// "point lookup on a missing id returns (nil, nil)" convention.
//
// Writes that touch more than one table must be bracketed by the caller
// with Begin/Commit; the contract does not implicitly wrap multi-call
// sequences in a transaction.
package store

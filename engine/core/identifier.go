package core

import "sync/atomic"

var lastID atomic.Uint32

// IdentifierAquireNewID hands out process-unique, non-zero ids for scene nodes.
// Zero is reserved as the invalid id.
func IdentifierAquireNewID() uint32 {
	return lastID.Add(1)
}

const InvalidID uint32 = 0

package domain

import "fmt"

// SlotKey identifies the slot a reservation competes over. Two reservations
// share a slot iff service, date and start time are all equal.
type SlotKey struct {
	ServiceID int64
	Date      string // canonical YYYY-MM-DD
	StartTime string // canonical HH:MM
}

const tokenSalt = "|salt"

// Token derives the 64-bit advisory-lock name for the slot. It is a pure
// function of the key: two independent djb2-xor hashes over
// "{service}|{date}|{time}", the second salted, packed high/low. A collision
// between distinct slots only over-serializes them, it never double-books.
func (k SlotKey) Token() uint64 {
	s := fmt.Sprintf("%d|%s|%s", k.ServiceID, k.Date, k.StartTime)
	hi := djb2(s)
	lo := djb2(s + tokenSalt)
	return uint64(hi)<<32 | uint64(lo)
}

func djb2(s string) uint32 {
	var h uint32 = 5381
	for i := 0; i < len(s); i++ {
		h = h*33 ^ uint32(s[i])
	}
	return h
}

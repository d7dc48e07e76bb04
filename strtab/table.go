// Package strtab implements the GTO string table: the append-only pool of
// interned strings that object/protocol/interpretation/property names and
// String-kind property values index into (spec §3, §4.2).
//
// Lookup is accelerated with an xxhash64 bucket index, the same technique
// the teacher package uses in internal/hash/id.go to avoid a linear scan
// when looking up a previously-seen identifier.
package strtab

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/gto-format/gto/errs"
)

// Table is an append-only, order-preserving collection of interned strings.
// The zero value is ready to use.
type Table struct {
	strings []string
	index   map[uint64][]int32 // hash bucket -> candidate ids, collision-chained
}

// New returns an empty Table.
func New() *Table {
	return &Table{index: make(map[uint64][]int32)}
}

// Len returns the number of interned strings.
func (t *Table) Len() int {
	return len(t.strings)
}

// Intern returns the id of s, adding it to the table if this is the first
// occurrence. Ids are assigned in first-seen order starting at 0, matching
// the order binary writers must serialize the table in (spec §4.2).
func (t *Table) Intern(s string) int32 {
	if t.index == nil {
		t.index = make(map[uint64][]int32)
	}

	h := xxhash.Sum64String(s)
	for _, id := range t.index[h] {
		if t.strings[id] == s {
			return id
		}
	}

	id := int32(len(t.strings))
	t.strings = append(t.strings, s)
	t.index[h] = append(t.index[h], id)

	return id
}

// Resolve returns the string stored at id, or an error wrapping
// errs.ErrStringIDOutOfRange if id is not a valid index.
func (t *Table) Resolve(id int32) (string, error) {
	if id < 0 || int(id) >= len(t.strings) {
		return "", errs.AtOffset(errs.ErrStringIDOutOfRange, 0, "string id "+strconv.FormatInt(int64(id), 10))
	}

	return t.strings[id], nil
}

// MustResolve is Resolve without the error return, for call sites that have
// already validated the id (e.g. ids produced by Intern on the same table).
// It panics on an invalid id, since that indicates a programming error
// rather than malformed input.
func (t *Table) MustResolve(id int32) string {
	s, err := t.Resolve(id)
	if err != nil {
		panic(err)
	}

	return s
}

// Strings returns the interned strings in id order. The returned slice must
// not be mutated by the caller.
func (t *Table) Strings() []string {
	return t.strings
}

// LoadOrdered returns a new Table holding strs, assigning ids 0..n-1 in
// slice order. Used by the binary reader, which parses the whole string
// pool up front and then builds id->string lookups without re-interning.
func LoadOrdered(strs []string) *Table {
	t := &Table{
		strings: strs,
		index:   make(map[uint64][]int32, len(strs)),
	}

	for id, s := range strs {
		h := xxhash.Sum64String(s)
		t.index[h] = append(t.index[h], int32(id))
	}

	return t
}


package model

import (
	"slices"
	"strconv"
	"strings"
)

// Flag marks the status of a transaction.
type Flag string

const (
	FlagCleared Flag = "*"
	FlagPending Flag = "!"
)

// flagChars are the single-character transaction flags the ledger syntax
// accepts.
const flagChars = "*!&#?%PSTCURM"

// Valid reports whether f is an accepted transaction flag.
func (f Flag) Valid() bool {
	return len(f) == 1 && strings.Contains(flagChars, string(f))
}

// Metadata keys attached to imported transactions.
const (
	MetaFilename = "filename"
	MetaLineno   = "lineno"
	MetaCreated  = "zenmoney_created"
	MetaChanged  = "zenmoney_changed"
	MetaCategory = "zenmoney_category"
)

// Meta holds transaction metadata. Filename and Line locate the source row;
// Fields holds the optional string values keyed by the Meta* constants.
type Meta struct {
	Filename string
	Line     int
	Fields   map[string]string
}

// Get returns the value stored under key. The source location is
// available under MetaFilename and MetaLineno.
func (m Meta) Get(key string) (string, bool) {
	switch key {
	case MetaFilename:
		return m.Filename, m.Filename != ""
	case MetaLineno:
		return strconv.Itoa(m.Line), m.Line > 0
	}
	v, ok := m.Fields[key]
	return v, ok
}

// Set stores value under key, ignoring empty values.
func (m *Meta) Set(key, value string) {
	if value == "" {
		return
	}
	if m.Fields == nil {
		m.Fields = make(map[string]string)
	}
	m.Fields[key] = value
}

// Keys returns the optional field keys in sorted order.
func (m Meta) Keys() []string {
	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

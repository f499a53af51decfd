// Package x holds what the extensions share. The extensions themselves
// live in sub-packages: sigs checks signatures, utils has generic
// decorators and escrow keeps the escrow records.
package x

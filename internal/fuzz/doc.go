// Package fuzztests houses Go fuzz harnesses for the two content checkers:
// the script analyzer and the markup checker. They guard against panics and
// hangs on arbitrary input; findings themselves are not asserted beyond
// basic well-formedness.
package fuzztests

package emulator

import (
	"errors"

	"github.com/ezrec/sap8/translate"
)

var f = translate.From

var (
	// Loader errors
	ErrImageTooLong = errors.New(f("image exceeds memory"))
)

// ErrNoHalt indicates a run ended by cycle limit, not by the halt flag.
type ErrNoHalt int

func (err ErrNoHalt) Error() string {
	return f("no halt within %d cycles", int(err))
}

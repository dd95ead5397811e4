package io

import (
	"errors"

	"github.com/ezrec/sap8/translate"
)

var f = translate.From

var (
	// Medium errors
	ErrReadOnly = errors.New(f("medium is read-only"))
	ErrNoOutput = errors.New(f("no output stream attached"))
)

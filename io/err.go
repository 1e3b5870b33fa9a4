package io

import (
	"errors"

	"github.com/ezrec/rvm/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrChannelClosed  = errors.New(f("channel closed"))
	ErrChannelInvalid = errors.New(f("channel invalid"))
	ErrStatusMissing  = errors.New(f("status channel closed without halt"))
)

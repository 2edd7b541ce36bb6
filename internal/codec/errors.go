package codec

import "errors"

var errDimMismatch = errors.New("codec: item length does not match configured dimension")

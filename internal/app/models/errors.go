package models

import "errors"

var ErrUnknownService = errors.New("unknown service")

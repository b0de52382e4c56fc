package gameservice

import "errors"

// ErrInvalidWorkbook is returned when an uploaded workbook has no usable rounds table.
var ErrInvalidWorkbook = errors.New("invalid workbook")

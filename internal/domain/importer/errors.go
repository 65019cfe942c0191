package importer

import "errors"

var (
	ErrNoSheets        = errors.New("workbook has no sheets")
	ErrUnsupportedKind = errors.New("unsupported import kind")
)

package snapshot

import "errors"

var (
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	ErrImport          = errors.New("import failed")
)

package tablerender

import "errors"

// Sentinel errors for programmatic error handling.
var (
	ErrClassConflict     = errors.New("conflicting column classes")
	ErrMalformedBodyRows = errors.New("malformed bodyrows")
	ErrRowIndex          = errors.New("invalid row index")
	ErrPassClosed        = errors.New("render pass closed")
	ErrUnbalanced        = errors.New("unbalanced element")
	ErrNoOpenTag         = errors.New("attribute outside start tag")
	ErrMalformedMarkup   = errors.New("malformed markup")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrUnsupportedConfig = errors.New("unsupported config syntax")
	ErrMissingInterface  = errors.New("missing required interface")
	ErrInvalidTemplate   = errors.New("invalid template")
)

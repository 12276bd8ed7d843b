package llm

import "errors"

var (
	ErrProviderUnavailable = errors.New("llm provider unavailable")
	ErrInvalidResponse     = errors.New("llm provider returned invalid response")
)

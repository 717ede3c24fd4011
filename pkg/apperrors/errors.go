package apperrors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrMissingAPIKey      = errors.New("OpenAI API key is required; provide it in the request or set OPENAI_API_KEY")
	ErrForbiddenStatement = errors.New("forbidden operation: only SELECT statements may be executed")
	ErrUnknownChartType   = errors.New("unknown chart type")
	ErrUnknownQueryType   = errors.New("unknown query type")
)

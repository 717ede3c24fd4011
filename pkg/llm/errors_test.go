package llm

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantType      ErrorType
		wantRetryable bool
		wantStatus    int
	}{
		{
			name:          "invalid api key",
			err:           errors.New("error, status code: 401, message: Incorrect API key provided"),
			wantType:      ErrorTypeAuth,
			wantRetryable: false,
			wantStatus:    401,
		},
		{
			name:          "model not found",
			err:           errors.New("the model `gpt-5-ultra` does not exist"),
			wantType:      ErrorTypeModel,
			wantRetryable: false,
		},
		{
			name:          "endpoint 404",
			err:           errors.New("error, status code: 404, message: not found"),
			wantType:      ErrorTypeEndpoint,
			wantRetryable: false,
			wantStatus:    404,
		},
		{
			name:          "connection refused",
			err:           errors.New("dial tcp 127.0.0.1:8080: connection refused"),
			wantType:      ErrorTypeEndpoint,
			wantRetryable: true,
		},
		{
			name:          "timeout",
			err:           errors.New("context deadline exceeded"),
			wantType:      ErrorTypeEndpoint,
			wantRetryable: true,
		},
		{
			name:          "rate limited",
			err:           errors.New("error, status code: 429, message: rate limit reached"),
			wantType:      ErrorTypeUnknown,
			wantRetryable: true,
			wantStatus:    429,
		},
		{
			name:          "server error",
			err:           errors.New("error, status code: 503, message: service unavailable"),
			wantType:      ErrorTypeEndpoint,
			wantRetryable: true,
			wantStatus:    503,
		},
		{
			name:          "unknown",
			err:           errors.New("something odd happened"),
			wantType:      ErrorTypeUnknown,
			wantRetryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyError(tt.err)
			if got.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", got.Type, tt.wantType)
			}
			if got.Retryable != tt.wantRetryable {
				t.Errorf("Retryable = %v, want %v", got.Retryable, tt.wantRetryable)
			}
			if tt.wantStatus != 0 && got.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", got.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestClassifyError_Nil(t *testing.T) {
	if got := ClassifyError(nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestClassifyError_AlreadyClassified(t *testing.T) {
	orig := NewError(ErrorTypeAuth, "authentication failed", false, errors.New("401"))
	wrapped := fmt.Errorf("generate sql: %w", orig)

	got := ClassifyError(wrapped)
	if got != orig {
		t.Errorf("expected the original *Error to be returned, got %v", got)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewError(ErrorTypeEndpoint, "connection failed", true, cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(NewError(ErrorTypeEndpoint, "server error", true, nil)) {
		t.Error("expected retryable error to report true")
	}
	if IsRetryable(errors.New("plain error")) {
		t.Error("expected plain error to report false")
	}
}

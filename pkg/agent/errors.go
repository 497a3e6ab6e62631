package agent

import (
	"errors"
	"fmt"

	smithy "github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

var (
	// ErrThrottled wraps provider rate limiting so callers can back off.
	ErrThrottled = errors.New("bedrock agent runtime throttled the request")

	// ErrTurnLimit indicates the return-control loop hit its turn bound
	// without producing a final response.
	ErrTurnLimit = errors.New("agent loop exceeded turn limit")
)

// classifyAWSError decorates AWS errors with the failing operation and folds
// throttling signals into ErrThrottled. Both provider error codes and raw
// HTTP 429 responses count as throttling.
func classifyAWSError(operation string, err error) error {
	if err == nil {
		return nil
	}
	if isThrottled(err) {
		return fmt.Errorf("%w: %s: %w", ErrThrottled, operation, err)
	}
	return fmt.Errorf("bedrock %s: %w", operation, err)
}

func isThrottled(err error) bool {
	if errors.Is(err, ErrThrottled) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "TooManyRequestsException":
			return true
		}
	}
	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == 429 {
		return true
	}
	return false
}

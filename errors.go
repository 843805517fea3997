package cavif

import "errors"

// The closed set of failure kinds surfaced by encode calls. Returned errors
// wrap one of these sentinels with call-specific context, so callers match
// them with errors.Is. No failure is retried by this package.
var (
	// ErrInvalidConfig means a configuration value is outside its valid
	// domain. It is surfaced at encode time, before any work is performed.
	ErrInvalidConfig = errors.New("cavif: invalid encoder configuration")

	// ErrCancelled means the cancellation token fired or the configured
	// timeout elapsed. The two causes are indistinguishable from the error;
	// callers that need to tell them apart can inspect the token afterwards.
	ErrCancelled = errors.New("cavif: encoding cancelled")

	// ErrEncodingFailed means the codec engine reported an internal failure,
	// for example unsupported pixel dimensions.
	ErrEncodingFailed = errors.New("cavif: encoding failed")

	// ErrMuxingFailed means container assembly failed after compression
	// succeeded. The compressed payloads are discarded.
	ErrMuxingFailed = errors.New("cavif: container assembly failed")
)

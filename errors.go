package frost

import (
    "fmt"
)

// ErrorCategory classifies a FROSTError by the spec's error taxonomy.
type ErrorCategory string

const (
    ErrorCategoryInvalidInput             ErrorCategory = "invalid_input"
    ErrorCategoryThresholdConfig          ErrorCategory = "threshold_config"
    ErrorCategoryPoPInvalid               ErrorCategory = "pop_invalid"
    ErrorCategoryShareInconsistent        ErrorCategory = "share_inconsistent"
    ErrorCategorySignerSetInvalid         ErrorCategory = "signer_set_invalid"
    ErrorCategoryNonceAlreadyUsed         ErrorCategory = "nonce_already_used"
    ErrorCategoryNonceMissing             ErrorCategory = "nonce_missing"
    ErrorCategoryInsufficientContributors ErrorCategory = "insufficient_contributors"
    ErrorCategoryPubkeyMismatch           ErrorCategory = "pubkey_mismatch"
    ErrorCategoryInternalCrypto           ErrorCategory = "internal_crypto"
)

// ErrorSeverity mirrors the teacher's severity ladder.
type ErrorSeverity string

const (
    ErrorSeverityLow      ErrorSeverity = "low"
    ErrorSeverityMedium   ErrorSeverity = "medium"
    ErrorSeverityHigh     ErrorSeverity = "high"
    ErrorSeverityCritical ErrorSeverity = "critical"
)

// FROSTError is the structured error returned by every fallible operation in
// this package. Each error kind named in spec §7 is a distinct Category with a
// stable Code, so callers can branch with IsErrorCategory instead of string
// matching.
type FROSTError struct {
    Category    ErrorCategory
    Severity    ErrorSeverity
    Code        string
    Message     string
    Details     string
    Cause       error
    Context     map[string]interface{}
    Recoverable bool
}

func (e *FROSTError) Error() string {
    if e.Details != "" {
        return fmt.Sprintf("[%s:%s] %s: %s", e.Category, e.Code, e.Message, e.Details)
    }
    return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

func (e *FROSTError) Unwrap() error {
    return e.Cause
}

// WithContext returns a copy of e with key/value added to its context map.
func (e *FROSTError) WithContext(key string, value interface{}) *FROSTError {
    newError := &FROSTError{
        Category:    e.Category,
        Severity:    e.Severity,
        Code:        e.Code,
        Message:     e.Message,
        Details:     e.Details,
        Recoverable: e.Recoverable,
        Cause:       e.Cause,
        Context:     make(map[string]interface{}, len(e.Context)+1),
    }
    for k, v := range e.Context {
        newError.Context[k] = v
    }
    newError.Context[key] = value
    return newError
}

// WithCause returns a copy of e wrapping cause.
func (e *FROSTError) WithCause(cause error) *FROSTError {
    newError := *e
    newError.Cause = cause
    return &newError
}

// WithDetails returns a copy of e with Details set.
func (e *FROSTError) WithDetails(format string, args ...interface{}) *FROSTError {
    newError := *e
    newError.Details = fmt.Sprintf(format, args...)
    return &newError
}

func (e *FROSTError) IsRecoverable() bool {
    return e.Recoverable
}

func newFROSTError(category ErrorCategory, severity ErrorSeverity, code, message string) *FROSTError {
    return &FROSTError{
        Category:    category,
        Severity:    severity,
        Code:        code,
        Message:     message,
        Recoverable: severity != ErrorSeverityCritical,
    }
}

// Sentinel errors, one family per spec §7 error kind.
var (
    ErrInvalidInput = newFROSTError(
        ErrorCategoryInvalidInput, ErrorSeverityHigh, "INVALID_INPUT",
        "malformed scalar, point, index, or path")

    ErrThresholdConfig = newFROSTError(
        ErrorCategoryThresholdConfig, ErrorSeverityHigh, "THRESHOLD_CONFIG",
        "threshold configuration is invalid")

    ErrPoPInvalid = newFROSTError(
        ErrorCategoryPoPInvalid, ErrorSeverityHigh, "POP_INVALID",
        "proof of possession verification failed")

    ErrShareInconsistent = newFROSTError(
        ErrorCategoryShareInconsistent, ErrorSeverityHigh, "SHARE_INCONSISTENT",
        "received share does not match sender's commitments")

    ErrSignerSetInvalid = newFROSTError(
        ErrorCategorySignerSetInvalid, ErrorSeverityHigh, "SIGNER_SET_INVALID",
        "signer set is invalid for this protocol run")

    ErrNonceAlreadyUsed = newFROSTError(
        ErrorCategoryNonceAlreadyUsed, ErrorSeverityHigh, "NONCE_ALREADY_USED",
        "session nonce has already been consumed")

    ErrNonceMissing = newFROSTError(
        ErrorCategoryNonceMissing, ErrorSeverityHigh, "NONCE_MISSING",
        "no nonce stored for this session")

    ErrInsufficientContributors = newFROSTError(
        ErrorCategoryInsufficientContributors, ErrorSeverityHigh, "INSUFFICIENT_CONTRIBUTORS",
        "fewer contributors than required threshold")

    ErrPubkeyMismatch = newFROSTError(
        ErrorCategoryPubkeyMismatch, ErrorSeverityCritical, "PUBKEY_MISMATCH",
        "resulting group public key differs from source")

    ErrInternalCrypto = newFROSTError(
        ErrorCategoryInternalCrypto, ErrorSeverityCritical, "INTERNAL_CRYPTO",
        "low-level arithmetic invariant violated")
)

// WrapError wraps err with FROST error context, for adapting errors bubbling
// up from library calls (e.g. btcec) into the taxonomy.
func WrapError(err error, category ErrorCategory, severity ErrorSeverity, code, message string) *FROSTError {
    return newFROSTError(category, severity, code, message).WithCause(err)
}

// IsErrorCategory reports whether err is a *FROSTError of the given category.
func IsErrorCategory(err error, category ErrorCategory) bool {
    if frostErr, ok := err.(*FROSTError); ok {
        return frostErr.Category == category
    }
    return false
}

// IsRecoverableError reports whether err is recoverable; non-FROST errors are
// assumed recoverable.
func IsRecoverableError(err error) bool {
    if frostErr, ok := err.(*FROSTError); ok {
        return frostErr.IsRecoverable()
    }
    return true
}

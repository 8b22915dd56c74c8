package binance

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"spot-tradebot/internal/core"
)

const (
	apiCodeDisconnected        = -1001
	apiCodeTimeout             = -1007
	apiCodeTooManyRequests     = -1003
	apiCodeTimestampOutOfRange = -1021
	apiCodeInvalidSignature    = -1022
	apiCodeBadSymbol           = -1121
	apiCodeCancelRejected      = -2011
	apiCodeOrderNotFound       = -2013
	apiCodeBadAPIKeyFormat     = -2014
	apiCodeRejectedAPIKey      = -2015
)

var apiErrorMessageKinds = map[string]error{
	"duplicate order sent.":                                  core.ErrDuplicateOrder,
	"account has insufficient balance for requested action.": core.ErrInsufficientBalance,
	"balance is insufficient.":                               core.ErrInsufficientBalance,
	"unknown order sent.":                                    core.ErrOrderNotFound,
	"order does not exist.":                                  core.ErrOrderNotFound,
}

// classifiedError keeps the concrete error message while matching kind sentinels with errors.Is.
type classifiedError struct {
	err   error
	kinds []error
}

func (e *classifiedError) Error() string {
	return e.err.Error()
}

func (e *classifiedError) Unwrap() []error {
	out := make([]error, 0, 1+len(e.kinds))
	out = append(out, e.err)
	return append(out, e.kinds...)
}

func transportError(err error) error {
	if err == nil {
		return nil
	}
	return &classifiedError{err: err, kinds: []error{core.ErrTransport}}
}

func parseAPIError(status int, body []byte) error {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Msg != "" {
		return classifyAPIError(APIError{Status: status, Code: apiErr.Code, Msg: apiErr.Msg})
	}
	return transportError(fmt.Errorf("binance http error %d: %s", status, strings.TrimSpace(string(body))))
}

func classifyAPIError(apiErr APIError) error {
	kinds := classifyAPIErrorKinds(apiErr)
	if len(kinds) == 0 {
		return apiErr
	}
	return &classifiedError{err: apiErr, kinds: kinds}
}

func classifyAPIErrorKinds(apiErr APIError) []error {
	kinds := make([]error, 0, 3)

	switch {
	case apiErr.Status == http.StatusUnauthorized,
		apiErr.Code == apiCodeInvalidSignature,
		apiErr.Code == apiCodeBadAPIKeyFormat,
		apiErr.Code == apiCodeRejectedAPIKey:
		return appendErrorKind(kinds, core.ErrAuthentication)
	case apiErr.Status >= 500,
		apiErr.Status == http.StatusTooManyRequests,
		apiErr.Status == http.StatusTeapot,
		apiErr.Code == apiCodeDisconnected,
		apiErr.Code == apiCodeTimeout,
		apiErr.Code == apiCodeTooManyRequests,
		apiErr.Code == apiCodeTimestampOutOfRange:
		return appendErrorKind(kinds, core.ErrTransport)
	}

	kinds = appendErrorKind(kinds, core.ErrOrderRejected)
	switch apiErr.Code {
	case apiCodeOrderNotFound, apiCodeCancelRejected:
		kinds = appendErrorKind(kinds, core.ErrOrderNotFound)
		kinds = appendErrorKind(kinds, core.ErrNotFound)
	case apiCodeBadSymbol:
		kinds = appendErrorKind(kinds, core.ErrNotFound)
	}
	if kind, ok := apiErrorMessageKinds[normalizeAPIErrorMsg(apiErr.Msg)]; ok {
		kinds = appendErrorKind(kinds, kind)
		if kind == core.ErrOrderNotFound {
			kinds = appendErrorKind(kinds, core.ErrNotFound)
		}
	}
	return kinds
}

func appendErrorKind(kinds []error, kind error) []error {
	if kind == nil {
		return kinds
	}
	for _, existing := range kinds {
		if existing == kind {
			return kinds
		}
	}
	return append(kinds, kind)
}

func normalizeAPIErrorMsg(msg string) string {
	return strings.ToLower(strings.TrimSpace(msg))
}

func AsAPIError(err error) (APIError, bool) {
	if err == nil {
		return APIError{}, false
	}
	var apiErr APIError
	if !errors.As(err, &apiErr) {
		return APIError{}, false
	}
	return apiErr, true
}

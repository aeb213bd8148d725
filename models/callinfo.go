package models

import (
	"golang.org/x/xerrors"
	"time"
)

type valueSetter interface {
	Set(key string, value string)
}

type valueFetcher interface {
	Get(key string) string
}

// Identifying information for a single function invocation, as communicated through
// fn-* headers.
type CallInfo struct {
	// Id of the invocation, assigned by the platform.
	ID string
	// HTTP method of the triggering request.
	Method string
	// Full URL of the triggering request.
	RequestURL string
	// Absolute time the invocation must complete by.
	Deadline time.Time
}

// Dumps call information to message headers.
func (callInfo *CallInfo) ToHeaders(headers valueSetter) {
	headers.Set("fn-call-id", callInfo.ID)
	// Only send back fields that are set.
	if callInfo.Method != "" {
		headers.Set("fn-method", callInfo.Method)
	}
	if callInfo.RequestURL != "" {
		headers.Set("fn-request-url", callInfo.RequestURL)
	}
	if !callInfo.Deadline.IsZero() {
		headers.Set("fn-deadline", callInfo.Deadline.Format(time.RFC3339))
	}
}

// CallInfoFromHeaders generates a CallInfo object from message headers. A missing
// fn-deadline leaves Deadline as the zero time.
func CallInfoFromHeaders(headers valueFetcher) (callInfo *CallInfo, err error) {
	callInfo = &CallInfo{
		ID:         headers.Get("fn-call-id"),
		Method:     headers.Get("fn-method"),
		RequestURL: headers.Get("fn-request-url"),
	}

	if deadlineValue := headers.Get("fn-deadline"); deadlineValue != "" {
		callInfo.Deadline, err = time.Parse(time.RFC3339, deadlineValue)
		if err != nil {
			return nil, xerrors.New("fn-deadline is not an RFC3339 time")
		}
	}

	return callInfo, nil
}

package invoke

import (
	"github.com/illuscio-dev/spanfn-go/fnerrors"
	"github.com/illuscio-dev/spanfn-go/models"
	uuid "github.com/satori/go.uuid"
	"net/http"
	"os"
	"strings"
	"time"
)

// Environment variable names making up the invocation contract.
const (
	envCallID       = "FN_CALL_ID"
	envDeadline     = "FN_DEADLINE"
	envMethod       = "FN_METHOD"
	envRequestURL   = "FN_REQUEST_URL"
	envHeaderPrefix = "FN_HEADER_"
)

/*
Context carries the metadata of a single function invocation: the call id assigned
by the platform, the request headers, deadline info and any configuration values the
platform passed down.

Context values are read-only once built, so a single Context may be shared across
goroutines.
*/
type Context struct {
	callID     uuid.UUID
	headers    http.Header
	config     map[string]string
	deadline   time.Time
	method     string
	requestURL string
}

// NewContext builds a Context directly, for callers that drive a Runner over a
// transport of their own. Nil headers or config are replaced with empty values.
func NewContext(
	callID uuid.UUID,
	headers http.Header,
	config map[string]string,
	deadline time.Time,
) *Context {
	if headers == nil {
		headers = make(http.Header)
	}
	if config == nil {
		config = make(map[string]string)
	}

	return &Context{
		callID:   callID,
		headers:  headers,
		config:   config,
		deadline: deadline,
	}
}

// Id of this invocation.
func (ctx *Context) CallID() uuid.UUID {
	return ctx.callID
}

// Headers of the triggering request.
func (ctx *Context) Headers() http.Header {
	return ctx.headers
}

// Config returns the configuration value stored under name, or an empty string when
// it was not set.
func (ctx *Context) Config(name string) string {
	return ctx.config[name]
}

// HasConfig reports whether a configuration value was set under name.
func (ctx *Context) HasConfig(name string) bool {
	_, ok := ctx.config[name]
	return ok
}

// Deadline the invocation must complete by. Zero when the platform sent none.
func (ctx *Context) Deadline() time.Time {
	return ctx.deadline
}

// HTTP method of the triggering request.
func (ctx *Context) Method() string {
	return ctx.method
}

// Full URL of the triggering request.
func (ctx *Context) RequestURL() string {
	return ctx.requestURL
}

// CallInfo renders the context's identifying fields as a models.CallInfo, ready to
// be dumped to response headers.
func (ctx *Context) CallInfo() *models.CallInfo {
	return &models.CallInfo{
		ID:         ctx.callID.String(),
		Method:     ctx.method,
		RequestURL: ctx.requestURL,
		Deadline:   ctx.deadline,
	}
}

// Parses the call id from the environment. A missing id gets a generated one, so
// handlers can always log a non-nil id.
func loadCallID(value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.NewV4(), nil
	}

	callID, err := uuid.FromString(value)
	if err != nil {
		return uuid.Nil, fnerrors.InitializationError.New(
			"FN_CALL_ID is not a valid UUID", nil, err,
		)
	}

	return callID, nil
}

// Parses the deadline from the environment. A missing deadline is the zero time.
func loadDeadline(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	deadline, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fnerrors.InitializationError.New(
			"FN_DEADLINE is not an RFC3339 time", nil, err,
		)
	}

	return deadline, nil
}

// Builds a Context from KEY=VALUE pairs in the form returned by os.Environ().
func contextFromEnviron(environ []string) (*Context, error) {
	headers := make(http.Header)
	config := make(map[string]string)

	var callIDValue string
	var deadlineValue string

	for _, pair := range environ {
		split := strings.SplitN(pair, "=", 2)
		if len(split) != 2 {
			continue
		}
		key, value := split[0], split[1]

		switch {
		case key == envCallID:
			callIDValue = value
		case key == envDeadline:
			deadlineValue = value
		case strings.HasPrefix(key, envHeaderPrefix):
			// FN_HEADER_CONTENT_TYPE becomes Content-Type. http.Header
			// canonicalizes the casing on Set.
			headerName := strings.Replace(
				strings.TrimPrefix(key, envHeaderPrefix), "_", "-", -1,
			)
			headers.Set(headerName, value)
		default:
			config[key] = value
		}
	}

	callID, err := loadCallID(callIDValue)
	if err != nil {
		return nil, err
	}

	deadline, err := loadDeadline(deadlineValue)
	if err != nil {
		return nil, err
	}

	ctx := NewContext(callID, headers, config, deadline)
	ctx.method = config[envMethod]
	ctx.requestURL = config[envRequestURL]

	return ctx, nil
}

// ContextFromEnv builds a Context from the process environment per the FN_*
// contract: FN_CALL_ID, FN_DEADLINE, FN_METHOD and FN_REQUEST_URL fill the call
// metadata, FN_HEADER_* variables become request headers, and every remaining
// variable lands in the config map.
func ContextFromEnv() (*Context, error) {
	return contextFromEnviron(os.Environ())
}

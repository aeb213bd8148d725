package invoke

import (
	"bytes"
	"github.com/illuscio-dev/spanfn-go/coercion"
	"github.com/illuscio-dev/spanfn-go/fnerrors"
	"github.com/illuscio-dev/spanfn-go/mimetype"
	"golang.org/x/xerrors"
	"net/http"
	"reflect"
)

// A single function invocation as handed to Runner.Invoke.
type Request struct {
	// Declared content type of Body, normally the Content-Type header value.
	ContentType string
	// Headers of the triggering request.
	Headers http.Header
	// Raw request payload.
	Body []byte
}

// The outcome of a single function invocation.
type Response struct {
	// Canonical mimetype string of Body.
	ContentType string
	// HTTP status code the platform should report.
	StatusCode int
	// Headers to send back, including the error-* headers on failures.
	Headers http.Header
	// Encoded response payload.
	Body []byte
	// Error the invocation failed with. Nil on success.
	Error *fnerrors.FnError
}

/*
Runner binds one Handler to one coercion engine and turns Requests into Responses.

A Runner holds no per-invocation state, so a single Runner may serve concurrent
invocations.
*/
type Runner struct {
	engine  *coercion.FnEngine
	handler Handler
}

// NewRunner builds a Runner around handlerFunc, which must satisfy the NewHandler
// shape.
func NewRunner(handlerFunc interface{}) (*Runner, error) {
	engine, err := coercion.NewCoercionEngine()
	if err != nil {
		return nil, fnerrors.InitializationError.New(
			"error creating coercion engine: "+err.Error(), nil, err,
		)
	}

	handler, err := NewHandler(handlerFunc)
	if err != nil {
		return nil, err
	}

	return &Runner{engine: engine, handler: handler}, nil
}

// Returns the coercion engine used on request and response payloads, so callers can
// register extensions before serving.
func (runner *Runner) Engine() *coercion.FnEngine {
	return runner.engine
}

// Runs the handler while catching panics. A panicked non-nil *FnError is recovered
// as that error, anything else is wrapped.
func (runner *Runner) callHandler(
	ctx *Context, input interface{},
) (result interface{}, err error) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}
		fnErr, ok := recovered.(*fnerrors.FnError)
		if ok && fnErr != nil {
			err = fnErr
			return
		}
		if ok {
			// A typed nil passes the assertion, but its Error method panics.
			recovered = "nil *FnError"
		}
		err = xerrors.Errorf("panic during handler call: %v", recovered)
	}()

	result, err = runner.handler.Call(ctx, input)
	return result, err
}

// Renders fnErr as a Response: identifying error-* headers, a text/plain body
// holding the error text, and the error type's http code.
func (runner *Runner) errorResponse(fnErr *fnerrors.FnError) *Response {
	headers := make(http.Header)
	headers.Set("Content-Type", mimetype.Plain.String())

	// The identifying headers are written even when error-data encoding fails.
	_ = fnErr.ToHeader(headers, runner.engine)

	responseBody := &bytes.Buffer{}
	err := runner.engine.Encode(mimetype.Plain, fnErr.Error(), responseBody)
	if err != nil {
		responseBody = bytes.NewBufferString(fnErr.Error())
	}

	return &Response{
		ContentType: mimetype.Plain.String(),
		StatusCode:  fnErr.HttpCode(),
		Headers:     headers,
		Body:        responseBody.Bytes(),
		Error:       fnErr,
	}
}

/*
Invoke runs one request through the coercion-handler-coercion pipeline:

1. The declared content type is classified (unknown declarations fall back to
json).

2. The request body is decoded into a fresh value of the handler's input type.
Failures become an InputCoercionError response.

3. The handler is called. A returned or panicked non-nil *FnError is kept as-is, any
other error or panic (a typed nil *FnError included) is wrapped in a FunctionError.

4. The handler's output is encoded in the same content type the caller sent.
Failures become an OutputCoercionError response.

Invoke never panics and always returns a usable Response.
*/
func (runner *Runner) Invoke(ctx *Context, request *Request) *Response {
	contentType := mimetype.FromString(request.ContentType)

	receiver := reflect.New(runner.handler.InputType())
	err := runner.engine.Decode(
		contentType, receiver.Interface(), bytes.NewReader(request.Body),
	)
	if err != nil {
		return runner.errorResponse(fnerrors.InputCoercionError.New(
			"error reading request content: "+err.Error(), nil, err,
		))
	}

	result, err := runner.callHandler(ctx, receiver.Elem().Interface())
	if err != nil {
		fnErr, ok := err.(*fnerrors.FnError)
		if !ok {
			fnErr = fnerrors.FunctionError.New(err.Error(), nil, err)
		} else if fnErr == nil {
			// A returned typed nil satisfies the error interface, but calling
			// Error on it panics.
			fnErr = fnerrors.FunctionError.New(
				"handler returned a nil *FnError", nil, nil,
			)
		}
		return runner.errorResponse(fnErr)
	}

	responseBody := &bytes.Buffer{}
	err = runner.engine.Encode(contentType, result, responseBody)
	if err != nil {
		return runner.errorResponse(fnerrors.OutputCoercionError.New(
			"error writing response content: "+err.Error(), nil, err,
		))
	}

	headers := make(http.Header)
	headers.Set("Content-Type", contentType.String())

	return &Response{
		ContentType: contentType.String(),
		StatusCode:  http.StatusOK,
		Headers:     headers,
		Body:        responseBody.Bytes(),
	}
}

package invoke

import (
	"bytes"
	"fmt"
	"github.com/illuscio-dev/spanfn-go/fnerrors"
	"io"
	"os"
)

// RunIO reads one request payload from reader, invokes the runner and writes the
// response body to writer. Read and write failures surface as TransportError. The
// invocation error, if any, is returned after the response body is written so
// callers still get the error payload.
func (runner *Runner) RunIO(
	ctx *Context, reader io.Reader, writer io.Writer,
) error {
	payload := &bytes.Buffer{}
	if _, err := payload.ReadFrom(reader); err != nil {
		return fnerrors.TransportError.New(
			"error reading request payload: "+err.Error(), nil, err,
		)
	}

	request := &Request{
		ContentType: ctx.Headers().Get("Content-Type"),
		Headers:     ctx.Headers(),
		Body:        payload.Bytes(),
	}

	response := runner.Invoke(ctx, request)

	if _, err := writer.Write(response.Body); err != nil {
		return fnerrors.TransportError.New(
			"error writing response payload: "+err.Error(), nil, err,
		)
	}

	// response.Error is a typed pointer, so return the nil interface explicitly.
	if response.Error != nil {
		return response.Error
	}
	return nil
}

func run(handlerFunc interface{}, reader io.Reader, writer io.Writer) error {
	runner, err := NewRunner(handlerFunc)
	if err != nil {
		return err
	}

	ctx, err := ContextFromEnv()
	if err != nil {
		return err
	}

	return runner.RunIO(ctx, reader, writer)
}

/*
Run is the entry point for a hosted function process: it builds a Runner around
handlerFunc, assembles the call Context from the FN_* environment contract, reads
the request payload from stdin and writes the response payload to stdout.

Failures are reported on stderr with the verbose FnError dump and returned, so a
main function can decide the exit code.
*/
func Run(handlerFunc interface{}) error {
	err := run(handlerFunc, os.Stdin, os.Stdout)
	if err == nil {
		return nil
	}

	if fnErr, ok := err.(*fnerrors.FnError); ok {
		_, _ = fmt.Fprintln(os.Stderr, fnErr.LogMessage())
	} else {
		_, _ = fmt.Fprintln(os.Stderr, err)
	}

	return err
}

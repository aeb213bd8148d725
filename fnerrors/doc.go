/*
Spanfn error model definition and default function invocation errors.

The Spanreed family strives to have a consistent set of errors (and error
communication) conventions shared between all services and clients, and function
runners are no exception.

This package defines two main objects for handling errors:

• FnErrorType defines an error type.

• FnError is an instance of an error which contains an FnErrorType.

Default FnErrorType Variables

Several pointers to FnErrorType definitions are included in this package, covering
the failure surfaces of a function invocation: coercing the request payload, coercing
the response payload, the handler itself, runner setup, and payload transport.
*/
package fnerrors

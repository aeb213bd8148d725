package fnerrors

import (
	"bytes"
	"fmt"
	"github.com/satori/go.uuid"
	"golang.org/x/xerrors"
	"runtime/debug"
	"strconv"

	"github.com/illuscio-dev/spanfn-go/coercion"
	"github.com/illuscio-dev/spanfn-go/mimetype"
)

// Interface for object that can set header information.
type headerSetter interface {
	Set(key string, value string)
}

/*
Used to define a type of error that a function runner can return. Think of it as
defining a TYPE of error that CAN be returned by your ecosystem's functions.

Each FnErrorType for a given ecosystem should have a unique Name and ApiCode.

Codes 1000-1999 are reserved for Spanfn's default error definitions.

Since types are declared as pointers, to protect against accidental mutation of the
error type by other packages, the underlying fields of this struct are private and
accessed through functions. Define new error types using NewFnErrorType()
*/
type FnErrorType struct {
	// Unique human-readable name of the error type for the API ecosystem.
	name string

	// Unique number to identify the error type in the API ecosystem.
	apiCode int

	// HTTP code that should be returned when this error type is returned. Set to -1
	// if the http code is determined dynamically.
	httpCode int
}

// Returns a new fn error to be returned by the function handler or panicked.
func (errorType *FnErrorType) New(
	message string,
	errorData map[string]interface{},
	source error,
) *FnError {
	fnError := FnError{
		FnErrorType: errorType,
		Message:     message,
		Id:          uuid.NewV4(),
		ErrorData:   errorData,
		sourceErr:   source,
		sourceStack: debug.Stack(),
		frame:       xerrors.Caller(0),
	}
	return &fnError
}

/*
Creates a new error that is immediately passed to a panic. Expected to be recovered
by the invocation runner. Allows errors to be generated from anywhere inside the
function handler without need to explicitly pass them up a chain of nested function
returns.
*/
func (errorType *FnErrorType) Panic(
	message string,
	errorData map[string]interface{},
	source error,
) {
	fnError := errorType.New(message, errorData, source)
	panic(fnError)
}

// Unique human-readable name of the error type for the API ecosystem.
func (errorType *FnErrorType) Name() string {
	return errorType.name
}

// Unique number to identify the error type in the API ecosystem.
func (errorType *FnErrorType) ApiCode() int {
	return errorType.apiCode
}

// HTTP code that should be returned when this error type is returned. Set to -1
// if the http code is determined dynamically.
func (errorType *FnErrorType) HttpCode() int {
	return errorType.httpCode
}

// Returns a copy of the error type with the given http code replaced.
func (errorType *FnErrorType) WithHttpCode(newHttpCode int) *FnErrorType {
	return &FnErrorType{
		name:     errorType.name,
		apiCode:  errorType.apiCode,
		httpCode: newHttpCode,
	}
}

// Allows the error type definition itself to also be a valid error for things like
// testing error equality.
func (errorType *FnErrorType) Error() string {
	return errorType.name +
		" (" + strconv.Itoa(errorType.apiCode) + ")"
}

// Used to return a specific error instance.
type FnError struct {
	// The type of error we are returning.
	*FnErrorType

	// A message detailing what caused the error.
	Message string

	// An id for the error being returned.
	Id uuid.UUID

	// A string / any mapping of data related to the error.
	ErrorData map[string]interface{}

	// If this error was returned because of another error, the original error is
	// stored here.
	sourceErr error

	// The debug.Stack() from where this error was instantiated.
	sourceStack []byte

	// The xerrors.Frame from where this error was instantiated.
	frame xerrors.Frame
}

// Returns true if the underlying type of this error is the same as errorType. Some
// errors may have multiple http codes possible, so we can't just compare ErrorType
// field equality directly.
func (fnError *FnError) IsType(errorType *FnErrorType) bool {
	return fnError.FnErrorType.Error() == errorType.Error()
}

// Error string to conform to builtin error interface.
func (fnError *FnError) Error() string {
	return fnError.FnErrorType.Error() + " - " + fnError.Message
}

// Implements xerrors.Wrapper interface. Part of how errors are being considered for
// implementation in future GO versions with more traceback support.
func (fnError *FnError) Unwrap() error {
	// implements xerrors.Wrapper
	return fnError.sourceErr
}

// More verbose error message that includes a debug.Stack() and source error
// information. This is not part of the Error(), Message, or ErrorData by default
// since it may contain sensitive information that is not desirable to return to the
// caller.
func (fnError *FnError) LogMessage() string {
	loggerMessage := fmt.Sprint(
		// print the error
		"\nMESSAGE: ",
		fnError.Error(),
		"\nORIGINAL: ",
		fnError.sourceErr,
		"\nPANIC STACK:\n",
		string(fnError.sourceStack),
	)
	return loggerMessage
}

// Writes error to an object which implements a Set(key string, value string) method
// like http.Request or http.Response headers. The identifying headers are written
// before error-data is encoded, so a data encoding failure still leaves the error
// identified.
func (fnError *FnError) ToHeader(
	setter headerSetter, dataEngine coercion.CoercionEngine,
) error {
	setter.Set("error-name", fnError.name)
	setter.Set("error-code", strconv.Itoa(fnError.apiCode))
	setter.Set("error-message", fnError.Message)
	setter.Set("error-id", fnError.Id.String())

	if fnError.ErrorData != nil {
		dataBytes := bytes.Buffer{}
		err := dataEngine.Encode(mimetype.JSON, fnError.ErrorData, &dataBytes)
		if err != nil {
			return err
		}
		setter.Set("error-data", dataBytes.String())
	}

	return nil
}

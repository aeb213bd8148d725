package fnerrors

// Base Error. Used when a generic error is returned by the function handler.
var FunctionError = NewFnErrorType(
	"FunctionError",
	1000,
	502,
)

// The request payload could not be coerced to the handler's input type.
var InputCoercionError = NewFnErrorType(
	"InputCoercionError",
	1001,
	400,
)

// The handler result could not be encoded for the response payload.
var OutputCoercionError = NewFnErrorType(
	"OutputCoercionError",
	1002,
	502,
)

// Runner setup failed before any invocation could be handled. This type SHOULD NOT
// be invoked by handler logic.
var InitializationError = NewFnErrorType(
	"InitializationError",
	1003,
	500,
)

// The raw payload could not be read from or written to the transport.
var TransportError = NewFnErrorType(
	"TransportError",
	1004,
	500,
)

// List of default FnError definitions.
var ErrorList = [5]*FnErrorType{
	FunctionError,
	InputCoercionError,
	OutputCoercionError,
	InitializationError,
	TransportError,
}

// Used to make ErrorTypeCodeIndex.
func makeDefaultErrorCodeIndex() map[int]*FnErrorType {
	index := make(map[int]*FnErrorType)
	for _, errorType := range ErrorList {
		index[errorType.apiCode] = errorType
	}
	return index
}

// ApiCode:*ErrorType indexing of default errors.
var ErrorTypeCodeIndex = makeDefaultErrorCodeIndex()

package invoke

import (
	"github.com/illuscio-dev/spanfn-go/fnerrors"
	"reflect"
)

/*
Handler is the contract the runner invokes once per request.

InputType() reports the type the request payload should be decoded into, and Call()
receives a value of exactly that type. Most callers will not implement Handler
directly, but build one from a plain function through NewHandler().
*/
type Handler interface {
	// The type request payloads are decoded into before Call.
	InputType() reflect.Type

	// Invokes the handler with a decoded input value.
	Call(ctx *Context, input interface{}) (interface{}, error)
}

var errorInterface = reflect.TypeOf((*error)(nil)).Elem()
var contextPointer = reflect.TypeOf(&Context{})

// Handler built around a plain function through reflection.
type reflectHandler struct {
	handlerFunc reflect.Value
	inputType   reflect.Type
}

func (handler *reflectHandler) InputType() reflect.Type {
	return handler.inputType
}

func (handler *reflectHandler) Call(
	ctx *Context, input interface{},
) (interface{}, error) {
	inputValue := reflect.ValueOf(input)
	// A nil interface carries no type info, so substitute the typed zero value.
	if !inputValue.IsValid() {
		inputValue = reflect.Zero(handler.inputType)
	}

	results := handler.handlerFunc.Call(
		[]reflect.Value{reflect.ValueOf(ctx), inputValue},
	)

	output := results[0].Interface()
	if errValue := results[1].Interface(); errValue != nil {
		return output, errValue.(error)
	}

	return output, nil
}

/*
NewHandler wraps a plain function as a Handler. The function must have the shape:

	func(ctx *invoke.Context, input T) (output U, err error)

where T and U are any coercible types. The second return must be exactly the error
interface. Shape violations are returned as InitializationError.
*/
func NewHandler(handlerFunc interface{}) (Handler, error) {
	funcType := reflect.TypeOf(handlerFunc)
	if funcType == nil || funcType.Kind() != reflect.Func {
		return nil, fnerrors.InitializationError.New(
			"handler must be a function", nil, nil,
		)
	}

	if funcType.NumIn() != 2 || funcType.In(0) != contextPointer {
		return nil, fnerrors.InitializationError.New(
			"handler must take (*invoke.Context, input)", nil, nil,
		)
	}

	if funcType.NumOut() != 2 || funcType.Out(1) != errorInterface {
		return nil, fnerrors.InitializationError.New(
			"handler must return (output, error)", nil, nil,
		)
	}

	handler := &reflectHandler{
		handlerFunc: reflect.ValueOf(handlerFunc),
		inputType:   funcType.In(1),
	}

	return handler, nil
}

package fnerrors

import (
	"fmt"
	"strings"

	"github.com/illuscio-dev/spanfn-go/coercion"
	"github.com/illuscio-dev/spanfn-go/mimetype"
)

// EXAMPLES ##########

// Lets convert an error thrown from FnEngine.Decode into an InputCoercionError as if
// we are a runner decoding a request payload.
func ExampleFnErrorType_New() {
	// Set up the engine doing our decoding
	engine, _ := coercion.NewCoercionEngine()

	// This data cannot be deserialized to a map via json
	data := "YOU'LL NEVER DECODE ME, BATMAN! HAHAHAHAHAHA"
	receiver := make(map[string]string)
	reader := strings.NewReader(data)

	err := engine.Decode(mimetype.JSON, receiver, reader)
	if err != nil {
		// Make a new InputCoercionError
		coercionErr := InputCoercionError.New(
			"error reading request content: "+err.Error(),
			nil,
			err,
		)

		// Print the fn error
		fmt.Println(coercionErr.Error())

		// Do something with the error
		// ...
	}

	fmt.Println()
	// Output:
	// InputCoercionError (1001) - error reading request content: json decode error [pos 1]: read map - expect char '{' but got char 'Y'
}

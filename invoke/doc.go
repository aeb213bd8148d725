// Invocation runner binding typed function handlers to payload coercion.
/*
A function handler is an ordinary Go function taking a call context and a typed
input value. The runner wraps that handler in the plumbing every hosted function
needs:

1. Call metadata is read from the FN_* environment contract and exposed through a
Context object.

2. The request payload is classified from its Content-Type header and decoded into
the handler's input type by a coercion engine.

3. The handler's return value is encoded back out in the same content type the
caller sent.

4. Errors and panics raised by any of the above are caught and translated to the
fnerrors model, with identifying error-* headers, rather than crashing the process.

The minimal program is a single call:

	func Greet(ctx *invoke.Context, name string) (string, error) {
		return "Hello, " + name + "!", nil
	}

	func main() {
		if err := invoke.Run(Greet); err != nil {
			os.Exit(1)
		}
	}

For transports other than stdio, build a Runner directly and feed it Request
values.
*/
package invoke

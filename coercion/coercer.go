package coercion

import (
	"io"
)

// Interface for defining a content encoder.
type Encoder interface {
	// To be implemented by content encoder. Implementation is expected to write content
	// to writer. The coercion engine which is calling Encode is made available through
	// engine, allowing encoders to access engine-level settings.
	Encode(engine CoercionEngine, writer io.Writer, content interface{}) error
}

// Interface for defining a content decoder.
type Decoder interface {
	// To be implemented by content decoder. Implementation is expected to read content
	// from reader and unmarshal it into contentReceiver. The coercion engine which is
	// calling Decode is made available through engine, allowing decoders to access
	// engine-level settings.
	Decode(engine CoercionEngine, reader io.Reader, contentReceiver interface{}) error
}

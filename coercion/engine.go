package coercion

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"golang.org/x/xerrors"
	"io"
	"reflect"

	"github.com/illuscio-dev/spanfn-go/mimetype"
)
import "github.com/ugorji/go/codec"

// Type helpers
type encoderMapping map[mimetype.ContentType]Encoder
type decoderMapping map[mimetype.ContentType]Decoder

/*
CoercionEngine details the contract for a payload coercion engine. The goal of the
coercion engine is to allow a common decoding and encoding methodology for every
supported content type, so that invocation runners can coerce request and response
payloads without knowing which format a caller declared.
*/
type CoercionEngine interface {
	// Registers an encoder for a given content type.
	SetEncoder(contentType mimetype.ContentType, encoder Encoder)

	// Registers a decoder for a given content type.
	SetDecoder(contentType mimetype.ContentType, decoder Decoder)

	// Returns true if the engine has a registered encoder for the content type.
	HandlesEncode(contentType mimetype.ContentType) bool

	// Returns true if the engine has a registered decoder for the content type.
	HandlesDecode(contentType mimetype.ContentType) bool

	// Returns true if the engine has a registered encoder AND decoder for the
	// content type.
	Handles(contentType mimetype.ContentType) bool

	// Decode content from reader using the decoder for contentType. Decoded content
	// is stored in contentReceiver.
	Decode(
		contentType mimetype.ContentType,
		contentReceiver interface{},
		reader io.Reader,
	) error

	// Encode content to writer using the encoder for contentType.
	Encode(
		contentType mimetype.ContentType,
		content interface{},
		writer io.Writer,
	) error
}

/*
FnEngine is the default implementation of the CoercionEngine interface.
Implementation is done through an interface so that the engine can be extended
through type wrapping.

Instantiation

Use NewCoercionEngine() to create a new FnEngine.

Default Content Types

Every mimetype.ContentType variant gets a codec path at construction:

• mimetype.JSON

• mimetype.YAML

• mimetype.XML

• mimetype.Plain

• mimetype.URLEncoded

Because the content type enumeration is closed, an engine built by NewCoercionEngine()
can coerce any classified payload. SetEncoder / SetDecoder replace the path for a
variant rather than extending the taxonomy.

Default JSON Extensions

FnEngine uses the codec library to encode/decode json
(https://godoc.org/github.com/ugorji/go/codec), which allows the definition of
extensions. FnEngine ships with the following types handled:

• UUIDs from "github.com/satori/go.uuid" are represented in their canonical string
form.

• Binary blob data is represented as a hex string. To signal that this conversion
should take place, you must use the named type BinData in the "fntypes" package of
this module.

• BSON primitive.Binary data will be encoded as a uuid string for 0x3 subtype and a
hex string for 0x0 subtype (arbitrary binary data). Other subtypes are not currently
supported and will panic.

• BSON raw is converted to a map and THEN encoded to a json object.

Additional json extensions can be registered through AddJSONExtensions() by passing
a slice of JSONExtensionOpts objects.

Default BSON Codecs

Raw BSON documents ride through the JSON path by way of a bsoncodec registry
(https://godoc.org/go.mongodb.org/mongo-driver/bson/bsoncodec). The registry ships
with a codec that stores uuid.UUID values as primitive.Binary subtype 0x3, and more
can be added through AddBSONCodecs().

Byte To Character Reinterpretation

The Plain, XML and URLEncoded paths treat the raw payload as a sequence of single-byte
characters, and write the low byte of each character back out when encoding. ASCII
payloads round-trip exactly; multi-byte encoded payloads do not. See the package doc.

Default Text/Plain Returns

When encoding to plaintext, fmt.Sprint is used on the passed object, so any type
can be sent and represented as text.

Panics

If an encoder or decoder panics during execution, that panic is caught and returned as
a *CoercionError.
*/
type FnEngine struct {
	// ContentType:Encoder mapping
	encoders encoderMapping
	// ContentType:Decoder mapping
	decoders decoderMapping

	// JSON handle for the default JSON coercer
	jsonHandle *codec.JsonHandle
	// BSON registry backing the bson.Raw json extension
	bsonRegistry *bsoncodec.Registry
	// BSON codecs
	bsonCodecs []*BsonCodecOpts
	// Engine to pass to Encoder.Encode() and Decoder.Decode() methods.
	passedEngine CoercionEngine
}

// Change the engine passed into Encoder.Encode() and Decoder.Decode()
func (engine *FnEngine) SetPassedEngine(newEngine CoercionEngine) {
	engine.passedEngine = newEngine
}

// Register an encoder for a given contentType
func (engine *FnEngine) SetEncoder(
	contentType mimetype.ContentType, encoder Encoder,
) {
	engine.encoders[contentType] = encoder
}

// Register a decoder for a given contentType
func (engine *FnEngine) SetDecoder(
	contentType mimetype.ContentType, decoder Decoder,
) {
	engine.decoders[contentType] = decoder
}

// Whether the FnEngine has a registered encoder for contentType.
func (engine *FnEngine) HandlesEncode(contentType mimetype.ContentType) bool {
	_, ok := engine.encoders[contentType]
	return ok
}

// Whether the FnEngine has a registered decoder for contentType.
func (engine *FnEngine) HandlesDecode(contentType mimetype.ContentType) bool {
	_, ok := engine.decoders[contentType]
	return ok
}

// Whether the FnEngine has a registered decoder AND encoder for contentType.
func (engine *FnEngine) Handles(contentType mimetype.ContentType) bool {
	return engine.HandlesEncode(contentType) && engine.HandlesDecode(contentType)
}

// Select what engine to pass into the encoder / decoder in case we are extending
// the engine type.
func (engine *FnEngine) getEngine() (passEngine CoercionEngine) {
	if engine.passedEngine != nil {
		passEngine = engine.passedEngine
	} else {
		passEngine = engine
	}

	return passEngine
}

// Runs an encoder while catching panics to return as errors
func (engine *FnEngine) safeEncode(
	encoder Encoder, writer io.Writer, content interface{},
) (err error) {
	defer func() {
		recovered := recover()
		if recovered != nil {
			err = xerrors.Errorf("panic during encode: %w", recovered)
		}
	}()

	passEngine := engine.getEngine()
	err = encoder.Encode(passEngine, writer, content)
	return err
}

// Runs a decoder while catching panics to return as errors
func (engine *FnEngine) safeDecode(
	decoder Decoder, reader io.Reader, contentReceiver interface{},
) (err error) {
	defer func() {
		recovered := recover()
		if recovered != nil {
			err = xerrors.Errorf("panic during decode: %w", recovered)
		}
	}()

	passEngine := engine.getEngine()
	err = decoder.Decode(passEngine, reader, contentReceiver)

	return err
}

// Decode coerces the payload held by reader into contentReceiver along the codec
// path for contentType. The payload is consumed: if reader is a closer it is closed
// before Decode returns. Codec failures are returned as a *CoercionError carrying the
// codec's message.
func (engine *FnEngine) Decode(
	contentType mimetype.ContentType,
	contentReceiver interface{},
	reader io.Reader,
) error {
	// Close the reader if it's a closer.
	if readCloser, ok := reader.(io.ReadCloser); ok {
		defer func() {
			_ = readCloser.Close()
		}()
	}

	decoder, ok := engine.decoders[contentType]
	if !ok {
		return xerrors.New("no decoder for " + contentType.String())
	}

	err := engine.safeDecode(decoder, reader, contentReceiver)
	if err != nil {
		return NewCoercionError(err)
	}

	return nil
}

// Encode coerces content into a fresh payload written to writer along the codec path
// for contentType. Codec failures are returned as a *CoercionError carrying the
// codec's message.
func (engine *FnEngine) Encode(
	contentType mimetype.ContentType,
	content interface{},
	writer io.Writer,
) error {
	encoder, ok := engine.encoders[contentType]
	if !ok {
		return xerrors.New("no encoder for " + contentType.String())
	}

	err := engine.safeEncode(encoder, writer, content)
	if err != nil {
		return NewCoercionError(err)
	}

	return nil
}

// Returns the handle used by the default json coercer.
func (engine *FnEngine) JSONHandle() *codec.JsonHandle {
	return engine.jsonHandle
}

// Returns the internal bsoncodec.Registry used by the bson.Raw json extension.
func (engine *FnEngine) BSONRegistry() *bsoncodec.Registry {
	return engine.bsonRegistry
}

// Adds JSON extensions to the engine's handle.
func (engine *FnEngine) AddJSONExtensions(extensions []*JSONExtensionOpts) error {
	for _, extOpts := range extensions {
		err := engine.jsonHandle.SetInterfaceExt(
			extOpts.ValueType, 1, extOpts.ExtInterface,
		)
		if err != nil {
			return xerrors.Errorf(
				"error adding json extension to content engine: %w", err,
			)
		}
	}
	return nil
}

// Adds BSON codecs to the engine's registry for use when converting raw bson data.
func (engine *FnEngine) AddBSONCodecs(codecs []*BsonCodecOpts) error {
	// Store these codecs for later in case more are added by the end user and we need
	// to declare a new registry.
	engine.bsonCodecs = append(engine.bsonCodecs, codecs...)

	builder := bsoncodec.NewRegistryBuilder()
	bsoncodec.DefaultValueEncoders{}.RegisterDefaultEncoders(builder)
	bsoncodec.DefaultValueDecoders{}.RegisterDefaultDecoders(builder)

	for _, codecOpts := range engine.bsonCodecs {
		builder.RegisterCodec(codecOpts.ValueType, codecOpts.Codec)
	}

	// Build the bson registry.
	engine.bsonRegistry = builder.Build()

	// Now redeclare the json extension for bson raw with this registry so it has
	// access to any additional codecs
	err := engine.jsonHandle.SetInterfaceExt(
		reflect.TypeOf(bson.Raw{}),
		1,
		&jsonExtBsonRaw{engine.bsonRegistry},
	)
	if err != nil {
		return xerrors.Errorf(
			"error building bson extension for json handle: %w", err,
		)
	}

	return nil
}

// NewCoercionEngine creates an FnEngine with codec paths registered for every
// content type variant, along with the default json extensions and bson codecs.
func NewCoercionEngine() (*FnEngine, error) {
	// Create the json handle.
	jsonHandle := &codec.JsonHandle{}

	// Create the coercion engine.
	engine := &FnEngine{
		encoders:     make(encoderMapping),
		decoders:     make(decoderMapping),
		jsonHandle:   jsonHandle,
		bsonRegistry: nil,
	}

	// Add the default encoders.
	engine.SetEncoder(mimetype.JSON, &jsonCoercer{})
	engine.SetEncoder(mimetype.YAML, &yamlCoercer{})
	engine.SetEncoder(mimetype.XML, &xmlCoercer{})
	engine.SetEncoder(mimetype.Plain, &textCoercer{})
	engine.SetEncoder(mimetype.URLEncoded, &formCoercer{})

	// Add the default decoders.
	engine.SetDecoder(mimetype.JSON, &jsonCoercer{})
	engine.SetDecoder(mimetype.YAML, &yamlCoercer{})
	engine.SetDecoder(mimetype.XML, &xmlCoercer{})
	engine.SetDecoder(mimetype.Plain, &textCoercer{})
	engine.SetDecoder(mimetype.URLEncoded, &formCoercer{})

	// Add the default json extensions to the engine.
	if err := engine.AddJSONExtensions(defaultJSONExtensions); err != nil {
		err = xerrors.Errorf("error adding default json extensions: %w", err)
		return nil, err
	}

	// Add the default bson codecs to the engine.
	if err := engine.AddBSONCodecs(defaultBsonCodecs); err != nil {
		err = xerrors.Errorf("error adding default bson codecs: %w", err)
		return nil, err
	}

	return engine, nil
}

package coercion

import (
	"encoding/hex"
	uuid "github.com/satori/go.uuid"
	"github.com/ugorji/go/codec"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/xerrors"
	"io"
	"reflect"

	"github.com/illuscio-dev/spanfn-go/fntypes"
)

// JSONExtensionOpts holds options for a JsonHandle extension to add to the handle on
// engine setup.
type JSONExtensionOpts struct {
	ValueType    reflect.Type
	ExtInterface codec.InterfaceExt
}

// defaultJSONExtensions holds all the JSONExtensionOpts to add to the JSONHandle on
// engine setup
var defaultJSONExtensions = []*JSONExtensionOpts{
	{
		ValueType:    reflect.TypeOf(uuid.UUID{}),
		ExtInterface: &jsonExtUUID{},
	},
	{
		ValueType:    reflect.TypeOf(fntypes.BinData{}),
		ExtInterface: &jsonExtBinData{},
	},
	{
		ValueType:    reflect.TypeOf(primitive.Binary{}),
		ExtInterface: &jsonExtBsonBinary{},
	},
}

// Converts UUID fields to their canonical string form and back.
type jsonExtUUID struct{}

func (ext *jsonExtUUID) ConvertExt(value interface{}) interface{} {
	switch valueUUID := value.(type) {
	case uuid.UUID:
		return valueUUID.String()
	case *uuid.UUID:
		return valueUUID.String()
	}

	panic(xerrors.New("value is not a uuid"))
}

func (ext *jsonExtUUID) UpdateExt(dest interface{}, value interface{}) {
	var valueUUID uuid.UUID
	var err error

	switch typed := value.(type) {
	case string:
		valueUUID, err = uuid.FromString(typed)
	case []byte:
		valueUUID, err = uuid.FromString(string(typed))
	default:
		err = xerrors.New("uuid field was not encoded as a string")
	}

	if err != nil {
		panic(xerrors.Errorf("could not decode uuid: %w", err))
	}

	*dest.(*uuid.UUID) = valueUUID
}

// Converts binary blob fields to a hex string and back. Blobs must be declared as the
// fntypes.BinData named type to signal the conversion.
type jsonExtBinData struct{}

func (ext *jsonExtBinData) ConvertExt(value interface{}) interface{} {
	var valueBin fntypes.BinData

	switch typed := value.(type) {
	case fntypes.BinData:
		valueBin = typed
	case *fntypes.BinData:
		valueBin = *typed
	default:
		panic(xerrors.New("value is not BinData"))
	}

	encoded := make([]byte, hex.EncodedLen(len(valueBin)))
	if written := hex.Encode(encoded, valueBin); written != len(encoded) {
		panic(xerrors.New("error encoding BinData to hex"))
	}

	return string(encoded)
}

func (ext *jsonExtBinData) UpdateExt(dest interface{}, value interface{}) {
	var hexString string

	switch typed := value.(type) {
	case string:
		hexString = typed
	case []byte:
		hexString = string(typed)
	default:
		panic(xerrors.New("BinData field was not encoded as a hex string"))
	}

	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		panic(xerrors.Errorf("could not decode hex: %w", err))
	}

	*dest.(*fntypes.BinData) = decoded
}

// Converts BSON binary fields to json. Currently supports Binary blobs and UUIDs.
type jsonExtBsonBinary struct{}

func (ext *jsonExtBsonBinary) ConvertExt(value interface{}) interface{} {
	valueBin := value.(*primitive.Binary)
	if valueBin.Subtype == 0x3 {
		valueUUID, err := uuid.FromBytes(valueBin.Data)
		if err != nil {
			panic(xerrors.Errorf("Error converting bson uuid: %w", err))
		}
		return valueUUID
	}

	if valueBin.Subtype == 0x0 {
		return fntypes.BinData(valueBin.Data)
	}

	panic(xerrors.New("unsupported Binary BSON format"))
}

func (ext *jsonExtBsonBinary) UpdateExt(dest interface{}, value interface{}) {
	panic(
		xerrors.New(
			"decoding to bson binary field not supported -- " +
				"use uuid or BinData type as intermediary",
		),
	)
}

// Converts BSON Raw document to json object.
type jsonExtBsonRaw struct {
	bsonRegistry *bsoncodec.Registry
}

func (ext *jsonExtBsonRaw) ConvertExt(value interface{}) interface{} {
	valueRaw := value.(bson.Raw)

	unmarshaled := make(map[string]interface{})

	if len(valueRaw) > 0 {
		err := bson.UnmarshalWithRegistry(
			ext.bsonRegistry, valueRaw, &unmarshaled,
		)
		if err != nil {
			panic(xerrors.Errorf(
				"error while unmarshalling bson for encoding: %w", err,
			))
		}
	}

	return unmarshaled
}

func (ext *jsonExtBsonRaw) UpdateExt(dest interface{}, value interface{}) {
	panic(xerrors.New("Decoding to BSON raw field not supported"))
}

// BsonCodecOpts holds options for registering BSON codecs with FnEngine's registry.
type BsonCodecOpts struct {
	// Type this codec handles encoding / decoding to.
	ValueType reflect.Type

	// Codec to register for this type.
	Codec bsoncodec.ValueCodec
}

var defaultBsonCodecs = []*BsonCodecOpts{
	{
		ValueType: reflect.TypeOf(uuid.UUID{}),
		Codec:     bsonCodecUUID{},
	},
}

// bsonCodecUUID handles encoding and decoding of UUID to and from bson.
type bsonCodecUUID struct{}

// Encodes uuid value to bson.
func (bsonCodec bsonCodecUUID) EncodeValue(
	encodeCTX bsoncodec.EncodeContext,
	valueWriter bsonrw.ValueWriter,
	value reflect.Value,
) error {
	valueUUID, _ := value.Interface().(uuid.UUID)
	_ = valueWriter.WriteBinaryWithSubtype(valueUUID.Bytes(), 0x3)

	return nil
}

// Decodes uuid value from bson.
func (bsonCodec bsonCodecUUID) DecodeValue(
	decodeCTX bsoncodec.DecodeContext,
	valueReader bsonrw.ValueReader,
	value reflect.Value,
) error {
	bytesUUID, _, _ := valueReader.ReadBinary()
	uuidVal, err := uuid.FromBytes(bytesUUID)

	if err != nil {
		return err
	}

	value.Set(reflect.ValueOf(uuidVal))

	return nil
}

// default JSON coercer for FnEngine.
type jsonCoercer struct{}

func (coercer *jsonCoercer) Encode(
	engine CoercionEngine, writer io.Writer, content interface{},
) error {
	fnEngine := engine.(*FnEngine)
	jsonEncoder := codec.NewEncoder(writer, fnEngine.jsonHandle)
	return jsonEncoder.Encode(content)
}

func (coercer *jsonCoercer) Decode(
	engine CoercionEngine, reader io.Reader, contentReceiver interface{},
) error {
	fnEngine := engine.(*FnEngine)
	jsonDecoder := codec.NewDecoder(reader, fnEngine.jsonHandle)
	return jsonDecoder.Decode(contentReceiver)
}

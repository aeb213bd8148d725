package coercion

import (
	"bytes"
	"fmt"
	"golang.org/x/xerrors"
	"io"
	"net/url"
	"reflect"
	"strconv"
)

// default coercer for application/x-www-form-urlencoded payloads. The payload passes
// through the narrow byte to character mapping on both sides, though url encoding is
// ASCII-only so the mapping is a passthrough for well-formed forms.
//
// Form payloads are flat: fields must be strings, booleans or numbers. Multi-value
// keys are supported through url.Values and map[string][]string content.
type formCoercer struct{}

func (coercer *formCoercer) Encode(
	engine CoercionEngine, writer io.Writer, content interface{},
) error {
	values, err := coercer.formValues(content)
	if err != nil {
		return err
	}

	_, err = writer.Write(narrowBytes(values.Encode()))
	return err
}

func (coercer *formCoercer) Decode(
	engine CoercionEngine, reader io.Reader, contentReceiver interface{},
) error {
	contentBuffer := new(bytes.Buffer)
	if _, err := contentBuffer.ReadFrom(reader); err != nil {
		return err
	}

	values, err := url.ParseQuery(narrowString(contentBuffer.Bytes()))
	if err != nil {
		return err
	}

	switch receiver := contentReceiver.(type) {
	case *url.Values:
		*receiver = values
		return nil
	case *map[string][]string:
		*receiver = values
		return nil
	case *map[string]string:
		flattened := make(map[string]string, len(values))
		for key := range values {
			flattened[key] = values.Get(key)
		}
		*receiver = flattened
		return nil
	case *map[string]interface{}:
		flattened := make(map[string]interface{}, len(values))
		for key := range values {
			flattened[key] = values.Get(key)
		}
		*receiver = flattened
		return nil
	}

	return coercer.decodeStruct(values, contentReceiver)
}

// Decodes form values into the exported fields of a struct pointer. Field keys can be
// overridden with a `form` tag. Keys absent from the form leave their fields zeroed.
func (coercer *formCoercer) decodeStruct(
	values url.Values, contentReceiver interface{},
) error {
	receiverValue := reflect.ValueOf(contentReceiver)
	if receiverValue.Kind() != reflect.Ptr ||
		receiverValue.Elem().Kind() != reflect.Struct {
		return xerrors.New(
			"content receiver must be a struct or map pointer to receive a form",
		)
	}

	structValue := receiverValue.Elem()
	structType := structValue.Type()

	for fieldIndex := 0; fieldIndex < structType.NumField(); fieldIndex++ {
		fieldInfo := structType.Field(fieldIndex)
		fieldKey := formFieldKey(&fieldInfo)
		if fieldKey == "" {
			continue
		}

		if _, present := values[fieldKey]; !present {
			continue
		}

		err := setFormField(structValue.Field(fieldIndex), values.Get(fieldKey))
		if err != nil {
			return xerrors.Errorf(
				"error decoding form field %v: %w", fieldKey, err,
			)
		}
	}

	return nil
}

// Builds url.Values from the content being encoded.
func (coercer *formCoercer) formValues(content interface{}) (url.Values, error) {
	switch typed := content.(type) {
	case url.Values:
		return typed, nil
	case *url.Values:
		return *typed, nil
	case map[string][]string:
		return url.Values(typed), nil
	case map[string]string:
		values := make(url.Values, len(typed))
		for key, value := range typed {
			values.Set(key, value)
		}
		return values, nil
	case map[string]interface{}:
		values := make(url.Values, len(typed))
		for key, value := range typed {
			values.Set(key, fmt.Sprint(value))
		}
		return values, nil
	}

	return coercer.structValues(content)
}

// Builds url.Values from the exported fields of a struct or struct pointer.
func (coercer *formCoercer) structValues(
	content interface{},
) (url.Values, error) {
	contentValue := reflect.Indirect(reflect.ValueOf(content))
	if !contentValue.IsValid() || contentValue.Kind() != reflect.Struct {
		return nil, xerrors.New(
			"form content must be a struct, url.Values or string-keyed map",
		)
	}

	contentType := contentValue.Type()
	values := make(url.Values)

	for fieldIndex := 0; fieldIndex < contentType.NumField(); fieldIndex++ {
		fieldInfo := contentType.Field(fieldIndex)
		fieldKey := formFieldKey(&fieldInfo)
		if fieldKey == "" {
			continue
		}

		fieldValue := contentValue.Field(fieldIndex)
		if !isFlatKind(fieldValue.Kind()) {
			return nil, xerrors.New(
				"form fields must be strings, booleans or numbers",
			)
		}

		values.Set(fieldKey, fmt.Sprint(fieldValue.Interface()))
	}

	return values, nil
}

// Resolves the form key for a struct field. Unexported fields and fields tagged
// `form:"-"` resolve to "" and are skipped.
func formFieldKey(fieldInfo *reflect.StructField) string {
	if fieldInfo.PkgPath != "" {
		return ""
	}

	tagged, ok := fieldInfo.Tag.Lookup("form")
	if !ok {
		return fieldInfo.Name
	}
	if tagged == "-" {
		return ""
	}

	return tagged
}

// Kinds a form field may hold.
func isFlatKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.String,
		reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}

	return false
}

// Sets a single struct field from its form value, converting to the field's kind.
func setFormField(field reflect.Value, rawValue string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(rawValue)
	case reflect.Bool:
		parsed, err := strconv.ParseBool(rawValue)
		if err != nil {
			return err
		}
		field.SetBool(parsed)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		parsed, err := strconv.ParseInt(rawValue, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(parsed)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		parsed, err := strconv.ParseUint(rawValue, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(parsed)
	case reflect.Float32, reflect.Float64:
		parsed, err := strconv.ParseFloat(rawValue, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(parsed)
	default:
		return xerrors.New("form fields must be strings, booleans or numbers")
	}

	return nil
}

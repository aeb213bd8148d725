package coercion

import (
	"bytes"
	"fmt"
	"golang.org/x/xerrors"
	"io"
)

// TODO: Add ability to register custom formatting functions for named types.

// narrowString reinterprets raw payload bytes as text by mapping each byte to the
// character with that code point value. Exact for ASCII payloads, wrong for
// multi-byte encodings. See the package doc.
func narrowString(raw []byte) string {
	chars := make([]rune, len(raw))
	for index, rawByte := range raw {
		chars[index] = rune(rawByte)
	}

	return string(chars)
}

// narrowBytes is the exact inverse of narrowString, keeping only the low byte of
// each character.
func narrowBytes(text string) []byte {
	raw := make([]byte, 0, len(text))
	for _, char := range text {
		raw = append(raw, byte(char))
	}

	return raw
}

// Handles encoding to / decoding from text/plain
type textCoercer struct{}

func (coercer *textCoercer) Encode(
	engine CoercionEngine, writer io.Writer, content interface{},
) error {
	contentString := fmt.Sprint(content)
	_, err := writer.Write(narrowBytes(contentString))

	return err
}

func (coercer *textCoercer) Decode(
	engine CoercionEngine, reader io.Reader, contentReceiver interface{},
) error {
	stringPointer, ok := contentReceiver.(*string)
	if !ok {
		return xerrors.New(
			"content receiver must be a string pointer to receive a string.",
		)
	}

	contentBuffer := new(bytes.Buffer)
	if _, err := contentBuffer.ReadFrom(reader); err != nil {
		return err
	}

	// An empty payload is a valid empty string, not a parse error.
	*stringPointer = narrowString(contentBuffer.Bytes())

	return nil
}

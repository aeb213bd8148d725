package coercion

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// default XML coercer for FnEngine. The payload passes through the narrow byte to
// character mapping on both sides of the codec.
type xmlCoercer struct{}

func (coercer *xmlCoercer) Encode(
	engine CoercionEngine, writer io.Writer, content interface{},
) error {
	marshalled, err := xml.Marshal(content)
	if err != nil {
		return err
	}

	_, err = writer.Write(narrowBytes(string(marshalled)))
	return err
}

func (coercer *xmlCoercer) Decode(
	engine CoercionEngine, reader io.Reader, contentReceiver interface{},
) error {
	contentBuffer := new(bytes.Buffer)
	if _, err := contentBuffer.ReadFrom(reader); err != nil {
		return err
	}

	xmlDecoder := xml.NewDecoder(
		strings.NewReader(narrowString(contentBuffer.Bytes())),
	)

	return xmlDecoder.Decode(contentReceiver)
}

package coercion

import (
	"bytes"
	"gopkg.in/yaml.v2"
	"io"
)

// default YAML coercer for FnEngine. Payloads move to and from the codec as raw
// bytes, with no byte to character reinterpretation.
type yamlCoercer struct{}

func (coercer *yamlCoercer) Encode(
	engine CoercionEngine, writer io.Writer, content interface{},
) error {
	marshalled, err := yaml.Marshal(content)
	if err != nil {
		return err
	}

	_, err = writer.Write(marshalled)
	return err
}

func (coercer *yamlCoercer) Decode(
	engine CoercionEngine, reader io.Reader, contentReceiver interface{},
) error {
	contentBuffer := new(bytes.Buffer)
	if _, err := contentBuffer.ReadFrom(reader); err != nil {
		return err
	}

	return yaml.Unmarshal(contentBuffer.Bytes(), contentReceiver)
}

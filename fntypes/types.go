package fntypes

// BinData is used to hold raw binary blob information for structs that need to support
// encoding to and from JSON payloads. The json coercer will hexify this data for
// transport.
type BinData []byte

// Bidirectional coercion between raw payload bytes and typed values.
/*
Spanfn's goal is to make a single coercion specification for every content type the
functions runtime speaks, so that request payloads can be decoded and handler results
encoded based on the declared mimetype, without format-specific methods being
explicitly called by the function developer.

Specific objectives

1. Callers can send any supported payload encoding and get the response encoded with
the same logical content type, stamped with its canonical mimetype.

2. Function developers declare plain typed values. Support for a content type is added
once here and gotten for free by every function in the ecosystem.

3. A coercion failure from any codec surfaces as a single error kind carrying the
codec's own message, so runners report every malformed payload the same way.

4. Developers can replace the codec path for a content type by registering their own
coercers.

Known Limitation

The Plain, XML and URLEncoded paths reinterpret raw payload bytes as text by mapping
each byte to the character with that code point value, and write the low byte of each
character back out when encoding. The mapping is exact for ASCII payloads and wrong
for multi-byte encodings. It is kept as-is for wire compatibility with existing
function clients.
*/
package coercion

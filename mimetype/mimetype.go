// Enumeration-like type for content mimetypes.
package mimetype

/*
ContentType enumerates the logical payload formats understood by the coercion engine.
The set is closed: every inbound mimetype string classifies to exactly one of these
variants, and every variant owns exactly one canonical outbound mimetype string
returned by String().
*/
type ContentType int

const (
	// JSON is the default content type. Inbound strings that match no other variant
	// classify as JSON.
	JSON = ContentType(iota)
	YAML
	XML
	Plain
	URLEncoded
)

// Pairs an accepted inbound mimetype string with its content type.
type inboundEntry struct {
	mimeString  string
	contentType ContentType
}

// Accepted inbound mimetype strings in match order. The mapping is many-to-one:
// variants like YAML and XML accept more than one inbound string.
var inboundEntries = []inboundEntry{
	{"application/json", JSON},
	{"text/yaml", YAML},
	{"application/yaml", YAML},
	{"text/xml", XML},
	{"application/xml", XML},
	{"text/plain", Plain},
	{"application/x-www-form-urlencoded", URLEncoded},
}

// Interface for object used to fetch headers such as http.Request.Header or
// http.Response.Header
type headerFetcher interface {
	Get(string) string
}

// Extract content type from a message / request header.
func FromHeader(headers headerFetcher) ContentType {
	return FromString(headers.Get("Content-Type"))
}

/*
FromString converts an inbound mimetype string to its ContentType. Matching against
the accepted inbound strings is exact and case-sensitive; the first match wins.
Anything unmatched, including a blank string, classifies as JSON.

Classification never fails: the runtime must always be able to pick some codec path
for arbitrary caller input, so unknown mimetypes deliberately fall through to the
JSON default instead of erroring.
*/
func FromString(incoming string) ContentType {
	for _, entry := range inboundEntries {
		if entry.mimeString == incoming {
			return entry.contentType
		}
	}

	return JSON
}

// String returns the canonical outbound mimetype for the content type. Responses
// always carry the canonical string, regardless of which accepted inbound string was
// originally classified.
func (contentType ContentType) String() string {
	switch contentType {
	case YAML:
		return "text/yaml"
	case XML:
		return "application/xml"
	case Plain:
		return "text/plain"
	case URLEncoded:
		return "application/x-www-form-urlencoded"
	}

	// JSON, plus any tag from outside the enumeration. Falling back to the JSON
	// string keeps the mapping total, mirroring the FromString default.
	return "application/json"
}

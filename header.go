package zavro

// HeaderSchemaJSON describes the prologue of an Avro object container file.
const HeaderSchemaJSON = `{
	"type": "record",
	"name": "org.apache.avro.file.Header",
	"fields": [
		{"name": "magic", "type": {"type": "fixed", "name": "Magic", "size": 4}},
		{"name": "meta", "type": {"type": "map", "values": "bytes"}},
		{"name": "sync", "type": {"type": "fixed", "name": "Sync", "size": 16}}
	]
}`

var headerSchema = MustParseSchema(HeaderSchemaJSON)

// HeaderSchema returns the container file header schema.
func HeaderSchema() Type {
	return headerSchema
}

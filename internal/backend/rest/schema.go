package rest

import (
	"bytes"
	"encoding/json"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"taskcli/internal/service"
)

const taskSchemaBody = `{
	"type": "object",
	"required": ["id", "titulo", "descripcion", "fecha_vence", "estado"],
	"properties": {
		"id": {"type": "integer", "minimum": 1},
		"titulo": {"type": "string"},
		"descripcion": {"type": "string"},
		"fecha_vence": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
		"estado": {"type": "boolean"}
	}
}`

var (
	taskSchema  = jsonschema.MustCompileString("task.json", taskSchemaBody)
	tasksSchema = jsonschema.MustCompileString("tasks.json", `{"type": "array", "items": `+taskSchemaBody+`}`)
)

// checkPayload validates a response body before it is decoded, so a
// server-side change (a renamed field, a missing id) surfaces as a
// ProtocolError instead of a zero-valued task.
func checkPayload(op string, schema *jsonschema.Schema, data []byte) error {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return &service.ProtocolError{Op: op, Err: err}
	}
	if err := schema.Validate(doc); err != nil {
		return &service.ProtocolError{Op: op, Err: err}
	}
	return nil
}

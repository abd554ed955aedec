package codec

import (
	"github.com/xeipuuv/gojsonschema"
)

// schemaFor is one compiled JSON Schema document per action type, matching
// the payload shapes in the action.Type catalogue. Compiled once at package
// init so Classify never pays schema-parse cost per message.
var schemaFor = map[string]*gojsonschema.Schema{
	"tool":     mustCompile(toolSchema),
	"notify":   mustCompile(notifySchema),
	"link":     mustCompile(linkSchema),
	"prompt":   mustCompile(promptSchema),
	"intent":   mustCompile(intentSchema),
}

const toolSchema = `{
	"type": "object",
	"required": ["type", "toolName", "args", "requestId"],
	"properties": {
		"type": {"const": "tool"},
		"toolName": {"type": "string", "minLength": 1},
		"args": {"type": "object"},
		"requestId": {"type": "string", "minLength": 1}
	}
}`

const notifySchema = `{
	"type": "object",
	"required": ["type", "level", "message"],
	"properties": {
		"type": {"const": "notify"},
		"level": {"enum": ["info", "warning", "error", "success"]},
		"message": {"type": "string"}
	}
}`

const linkSchema = `{
	"type": "object",
	"required": ["type", "url"],
	"properties": {
		"type": {"const": "link"},
		"url": {"type": "string", "minLength": 1},
		"target": {"enum": ["_blank", "_self"]}
	}
}`

const promptSchema = `{
	"type": "object",
	"required": ["type", "text", "requestId"],
	"properties": {
		"type": {"const": "prompt"},
		"text": {"type": "string"},
		"defaultValue": {"type": "string"},
		"requestId": {"type": "string", "minLength": 1}
	}
}`

const intentSchema = `{
	"type": "object",
	"required": ["type", "intent"],
	"properties": {
		"type": {"const": "intent"},
		"intent": {"type": "string", "minLength": 1},
		"data": {"type": "object"}
	}
}`

func mustCompile(doc string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(doc))
	if err != nil {
		panic("codec: invalid embedded schema: " + err.Error())
	}
	return schema
}

// validateShape runs document (raw JSON bytes) against the schema
// registered for actionType, returning a human-readable validation error
// (nil on success, non-nil listing the first violation on failure).
func validateShape(actionType string, document []byte) error {
	schema, ok := schemaFor[actionType]
	if !ok {
		return errUnknownType(actionType)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return err
	}
	if !result.Valid() {
		return errShapeViolation(actionType, result.Errors())
	}
	return nil
}

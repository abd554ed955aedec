package codec

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

func errUnknownType(actionType string) error {
	return fmt.Errorf("codec: unrecognized action type %q", actionType)
}

func errShapeViolation(actionType string, violations []gojsonschema.ResultError) error {
	if len(violations) == 0 {
		return fmt.Errorf("codec: %s payload does not match its schema", actionType)
	}
	return fmt.Errorf("codec: %s payload invalid: %s", actionType, violations[0].String())
}

package api

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var levelsSchema = mustSchema(map[string]any{
	"type":     "array",
	"minItems": 1,
	"items": map[string]any{
		"type":     "object",
		"required": []any{"name", "scoreValue", "color"},
		"properties": map[string]any{
			"name":         map[string]any{"type": "string", "minLength": 1},
			"scoreValue":   map[string]any{"type": "number"},
			"color":        map[string]any{"type": "string", "pattern": "^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$"},
			"displayOrder": map[string]any{"type": "integer"},
		},
	},
})

var evaluationSchema = mustSchema(map[string]any{
	"type":     "object",
	"required": []any{"evaluatorId", "evaluatorType", "targetType", "targetId"},
	"properties": map[string]any{
		"evaluatorId":   map[string]any{"type": "string", "minLength": 1},
		"evaluatorType": map[string]any{"type": "string"},
		"targetType":    map[string]any{"type": "string"},
		"targetId":      map[string]any{"type": "string", "minLength": 1},
		"numericRating": map[string]any{"type": "number"},
		"starRating":    map[string]any{"type": "integer"},
		"letterRating":  map[string]any{"type": "string"},
		"comment":       map[string]any{"type": "string"},
		"draft":         map[string]any{"type": "boolean"},
	},
})

var evaluationUpdateSchema = mustSchema(map[string]any{
	"type":     "object",
	"required": []any{"evaluatorId"},
	"properties": map[string]any{
		"evaluatorId":   map[string]any{"type": "string", "minLength": 1},
		"numericRating": map[string]any{"type": "number"},
		"starRating":    map[string]any{"type": "integer"},
		"letterRating":  map[string]any{"type": "string"},
		"comment":       map[string]any{"type": "string"},
	},
})

var ownerSchema = mustSchema(map[string]any{
	"type":       "object",
	"required":   []any{"evaluatorId"},
	"properties": map[string]any{"evaluatorId": map[string]any{"type": "string", "minLength": 1}},
})

var thresholdsSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"below":       map[string]any{"type": []any{"number", "null"}},
		"meets":       map[string]any{"type": []any{"number", "null"}},
		"good":        map[string]any{"type": []any{"number", "null"}},
		"veryGood":    map[string]any{"type": []any{"number", "null"}},
		"exceptional": map[string]any{"type": []any{"number", "null"}},
	},
}

var keyResultSchema = mustSchema(map[string]any{
	"type":     "object",
	"required": []any{"metricType"},
	"properties": map[string]any{
		"metricType":  map[string]any{"type": "string"},
		"actualValue": map[string]any{"type": "string"},
		"thresholds":  thresholdsSchema,
	},
})

func mustSchema(doc map[string]any) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		panic(fmt.Sprintf("invalid request schema: %v", err))
	}
	return s
}

// validateBody checks raw JSON against schema and joins every violation
// into one error.
func validateBody(schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if result.Valid() {
		return nil
	}
	errs := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		errs[i] = desc.String()
	}
	return fmt.Errorf("%w: %s", ErrSchema, strings.Join(errs, "; "))
}

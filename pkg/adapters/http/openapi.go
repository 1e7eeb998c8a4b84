package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/aretw0/agentkit"
	"github.com/aretw0/agentkit/pkg/registry"
)

var replySchema = &openapi3.Schema{
	Type: &openapi3.Types{openapi3.TypeObject},
	Properties: openapi3.Schemas{
		"id":     openapi3.NewStringSchema().NewRef(),
		"action": openapi3.NewStringSchema().NewRef(),
		"ok":     openapi3.NewBoolSchema().NewRef(),
		"result": described(openapi3.NewObjectSchema(), "Action envelope: declared result fields, message and optional code").NewRef(),
		"error":  described(openapi3.NewStringSchema(), "Unknown action, denial or handler failure").NewRef(),
	},
	Required: []string{"action", "ok"},
}

// OpenAPI builds the document describing the dispatch API of reg.
// Each action gets its own POST /actions/NAME operation carrying its input schema.
func OpenAPI(reg *registry.Registry) (*openapi3.T, error) {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   "agentkit dispatch API",
			Version: strings.TrimSpace(agentkit.Version),
		},
		Paths: openapi3.NewPaths(),
	}

	dispatchBody := openapi3.NewObjectSchema().
		WithProperty("action", openapi3.NewStringSchema()).
		WithProperty("arguments", openapi3.NewSchema())
	dispatchBody.Required = []string{"action"}

	dispatchOp := operation("dispatch", "Dispatch any action by name", dispatchBody)
	dispatchOp.Responses.Set("404", &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Unknown action").WithJSONSchema(replySchema)})
	doc.Paths.Set("/dispatch", &openapi3.PathItem{Post: dispatchOp})

	listOp := openapi3.NewOperation()
	listOp.OperationID = "listActions"
	listOp.Summary = "List the action catalog"
	listOp.Responses = openapi3.NewResponses(openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription("Catalog").WithJSONSchema(openapi3.NewArraySchema().WithItems(openapi3.NewObjectSchema())),
	}))
	doc.Paths.Set("/actions", &openapi3.PathItem{Get: listOp})

	for _, d := range reg.List() {
		input, err := toOpenAPISchema(d.Entry().InputSchema)
		if err != nil {
			return nil, fmt.Errorf("action %s: %w", d.Name, err)
		}
		op := operation(d.Name, d.Description, input)
		if d.Mutating {
			op.Tags = []string{"mutating"}
		}
		doc.Paths.Set("/actions/"+d.Name, &openapi3.PathItem{Post: op})
	}

	return doc, nil
}

func described(s *openapi3.Schema, desc string) *openapi3.Schema {
	s.Description = desc
	return s
}

func operation(id, summary string, body *openapi3.Schema) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = id
	op.Summary = summary
	op.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().WithJSONSchema(body)}
	op.Responses = openapi3.NewResponses(openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription("Dispatch reply").WithJSONSchema(replySchema),
	}))
	return op
}

// toOpenAPISchema converts an action input document. The documents use only
// keywords OpenAPI 3.0 shares with JSON Schema.
func toOpenAPISchema(doc map[string]any) (*openapi3.Schema, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	s := openapi3.NewSchema()
	if err := json.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("convert input schema: %w", err)
	}
	return s, nil
}

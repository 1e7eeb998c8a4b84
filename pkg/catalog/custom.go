package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/agentkit/pkg/agent"
	"github.com/aretw0/agentkit/pkg/domain"
	"github.com/aretw0/agentkit/pkg/registry"
	"github.com/aretw0/agentkit/pkg/schema"
	"github.com/aretw0/agentkit/pkg/tool"
)

// HTTPAction declares an extra action backed by one REST call.
// GET actions send arguments as query parameters, POST actions as a JSON body.
type HTTPAction struct {
	Name        string             `yaml:"name" json:"name"`
	Description string             `yaml:"description" json:"description"`
	Method      string             `yaml:"method" json:"method"`
	URL         string             `yaml:"url" json:"url"`
	Headers     map[string]string  `yaml:"headers" json:"headers"`
	Input       []schema.FieldSpec `yaml:"input" json:"input"`
	Result      string             `yaml:"result" json:"result"`
	Mutating    bool               `yaml:"mutating" json:"mutating"`
}

// ActionsFile is the structure of actions.yaml.
type ActionsFile struct {
	Actions []HTTPAction `yaml:"actions" json:"actions"`
}

// LoadActions reads HTTP actions from a YAML or JSON file.
// A missing file means no extra actions.
func LoadActions(path string) ([]HTTPAction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read actions file: %w", err)
	}

	var f ActionsFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return f.Actions, nil
}

// HTTPDescriptors turns declared HTTP actions into registry descriptors.
// Header values may reference environment variables as ${NAME}.
func HTTPDescriptors(ac *agent.Context, actions []HTTPAction) ([]registry.Descriptor, error) {
	out := make([]registry.Descriptor, 0, len(actions))
	for _, a := range actions {
		d, err := httpDescriptor(ac, a)
		if err != nil {
			return nil, fmt.Errorf("action %s: %w", a.Name, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func httpDescriptor(ac *agent.Context, a HTTPAction) (registry.Descriptor, error) {
	if a.Name == "" {
		return registry.Descriptor{}, fmt.Errorf("name is required")
	}
	method := strings.ToUpper(a.Method)
	switch method {
	case "":
		method = http.MethodGet
	case http.MethodGet, http.MethodPost:
	default:
		return registry.Descriptor{}, fmt.Errorf("unsupported method %s", a.Method)
	}
	if u, err := url.Parse(a.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return registry.Descriptor{}, fmt.Errorf("invalid url %q", a.URL)
	}
	s, err := schema.ParseFields(a.Input)
	if err != nil {
		return registry.Descriptor{}, err
	}
	result := a.Result
	if result == "" {
		result = "result"
	}

	headers := make(map[string]string, len(a.Headers))
	for k, v := range a.Headers {
		headers[k] = os.ExpandEnv(v)
	}
	rc := ac.REST(a.Name, a.URL, headers)

	adapter, err := tool.NewWithSchema(tool.Spec{
		Name:        domain.ActionName(a.Name),
		Description: a.Description,
		Result:      []string{result},
		ErrorPrefix: "Error calling " + a.Name,
		Mutating:    a.Mutating,
	}, s, func(ctx context.Context, in map[string]any) (any, error) {
		var out any
		if method == http.MethodPost {
			err := rc.Post(ctx, "", in, &out)
			return out, err
		}
		q := make(url.Values, len(in))
		for k, v := range in {
			q.Set(k, fmt.Sprint(v))
		}
		err := rc.Get(ctx, "", q, &out)
		return out, err
	})
	if err != nil {
		return registry.Descriptor{}, err
	}
	return adapter.Descriptor(), nil
}

package config

import (
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
)

// GenerateSchema reflects the JSON schema of Config.
func GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch t {
			case reflect.TypeOf(StrategyMode("")):
				return &jsonschema.Schema{Type: "string", Enum: AllStrategyModes} //nolint:exhaustruct // third-party struct with many optional fields
			case reflect.TypeOf(FeedProvider("")):
				return &jsonschema.Schema{Type: "string", Enum: AllFeedProviders} //nolint:exhaustruct // third-party struct with many optional fields
			}

			if t.String() == "optional.Option[int64]" {
				return &jsonschema.Schema{Type: "integer"} //nolint:exhaustruct // third-party struct with many optional fields
			}

			return nil
		},
	}

	schema := reflector.Reflect(&Config{}) //nolint:exhaustruct // empty config for schema generation
	schema.Title = "argo-tracker-config"
	schema.Description = "Configuration schema for the argo tracker"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// GenerateSchemaJSON renders GenerateSchema as indented JSON.
func GenerateSchemaJSON() (string, error) {
	schemaBytes, err := json.MarshalIndent(GenerateSchema(), "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

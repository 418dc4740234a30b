package snapshot

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed map_v3.schema.json
var mapV3Schema []byte

const mapV3SchemaURL = "mapedit://schemas/map_v3.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func documentSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(mapV3SchemaURL, bytes.NewReader(mapV3Schema)); err != nil {
			schemaErr = fmt.Errorf("snapshot schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(mapV3SchemaURL)
	})
	return schema, schemaErr
}

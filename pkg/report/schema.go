// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
	"gopkg.in/yaml.v3"
)

const schemaName = "Report"

// Schema returns the openapi3.SchemaRef of the report document
func Schema() (*openapi3.SchemaRef, error) {
	ref, err := openapi3gen.NewSchemaRefForValue(Report{}, openapi3.Schemas{})
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema of %s: %w", schemaName, err)
	}
	return ref, nil
}

// Document returns an OpenAPI document holding the report schema as component
func Document(version string) (*openapi3.T, error) {
	ref, err := Schema()
	if err != nil {
		return nil, err
	}
	if version == "" {
		version = "dev"
	}
	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "icmptrace report",
			Description: "Document printed by icmptrace with the json or yaml output format",
			Version:     version,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{schemaName: ref},
		},
	}, nil
}

// WriteSchema prints the OpenAPI document in the given format.
// The text format prints JSON.
func WriteSchema(w io.Writer, format Format, version string) error {
	doc, err := Document(version)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}
	if format != YAML {
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	}

	var v any
	if err = json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("failed to convert schema: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err = enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}
	return enc.Close()
}

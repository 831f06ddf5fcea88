package validation

import (
	"context"
	"strings"

	"github.com/compose-spec/compose-go/v2/loader"
	"github.com/compose-spec/compose-go/v2/types"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Schema Round-Trip
// =============================================================================

// ValidateRendered loads the rendered manifest back through the compose
// loader. Anything the loader rejects would also be rejected at deploy
// time, so a load failure is a SchemaError and aborts compilation.
func ValidateRendered(content []byte) error {
	if strings.TrimSpace(string(content)) == "" {
		return &SchemaError{Message: "rendered manifest is empty"}
	}

	var dict map[string]interface{}
	if err := yaml.Unmarshal(content, &dict); err != nil {
		return &SchemaError{Message: "rendered manifest is not valid YAML: " + err.Error()}
	}
	if dict == nil {
		return &SchemaError{Message: "rendered manifest is not a mapping"}
	}

	_, err := loader.LoadWithContext(context.Background(), types.ConfigDetails{
		ConfigFiles: []types.ConfigFile{
			{
				Content: content,
				Config:  dict,
			},
		},
	}, func(opts *loader.Options) {
		opts.SetProjectName("stackgen-check", false)
		opts.SkipValidation = false
		opts.SkipInterpolation = true // generated values are literal
		// The document is in-memory; nothing to resolve on disk.
		opts.SkipNormalization = true
		opts.SkipExtends = true
	})
	if err != nil {
		return &SchemaError{Message: err.Error()}
	}

	return nil
}

package veneer

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// SurfaceOptions configures a Surface. Nil and empty fields leave the
// corresponding setting untouched, so options can be applied partially.
type SurfaceOptions struct {
	// ElementType is the tag to allocate; defaults to DefaultElementType.
	ElementType string
	// ElementClasses are fixed classes every element of this surface carries;
	// defaults to DefaultElementClass.
	ElementClasses []string

	Size       *Size
	Classes    []string
	Properties map[string]string
	Content    Content
}

// surfaceOptionsDoc is the YAML shape of SurfaceOptions.
type surfaceOptionsDoc struct {
	Element        string            `yaml:"element"`
	ElementClasses []string          `yaml:"elementClasses"`
	Size           *Size             `yaml:"size"`
	Classes        []string          `yaml:"classes"`
	Properties     map[string]string `yaml:"properties"`
	Content        *string           `yaml:"content"`
}

// LoadSurfaceOptions parses a YAML document mapping surface names to options:
//
//	header:
//	  size: [320, 48]
//	  classes: [bar]
//	  properties:
//	    background-color: "#223"
//	  content: "<b>Title</b>"
//	body:
//	  size: [~, true]
//
// In sizes, a number is a fixed pixel value, true measures the content and
// null (~) inherits from the parent.
func LoadSurfaceOptions(data []byte) (map[string]SurfaceOptions, error) {
	var docs map[string]surfaceOptionsDoc
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parse surface options: %w", err)
	}
	out := make(map[string]SurfaceOptions, len(docs))
	for name, d := range docs {
		opts := SurfaceOptions{
			ElementType:    d.Element,
			ElementClasses: d.ElementClasses,
			Size:           d.Size,
			Classes:        d.Classes,
			Properties:     d.Properties,
		}
		if d.Content != nil {
			opts.Content = HTML(*d.Content)
		}
		out[name] = opts
	}
	return out, nil
}

// UnmarshalYAML decodes a two-element sequence of numbers, true or null.
func (s *Size) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode || len(value.Content) != 2 {
		return fmt.Errorf("line %d: size must be a two-element sequence", value.Line)
	}
	var out Size
	for i, n := range value.Content {
		switch n.ShortTag() {
		case "!!null":
			out[i] = Inherit
		case "!!bool":
			b, err := strconv.ParseBool(n.Value)
			if err != nil || !b {
				return fmt.Errorf("line %d: size axis may only be true, a number or null", n.Line)
			}
			out[i] = Measure
		case "!!int", "!!float":
			v, err := strconv.ParseFloat(n.Value, 64)
			if err != nil {
				return fmt.Errorf("line %d: size axis: %w", n.Line, err)
			}
			out[i] = Px(v)
		default:
			return fmt.Errorf("line %d: unexpected size axis %q", n.Line, n.Value)
		}
	}
	*s = out
	return nil
}

package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// strictDecode re-encodes node and decodes it through a yaml.Decoder with
// KnownFields enabled, so a step carrying an unrecognized key (a typo'd
// `cpu_requset`, say) is rejected instead of silently ignored.
func strictDecode(node *yaml.Node, out any) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if err := enc.Encode(node); err != nil {
		return err
	}
	enc.Close()

	dec := yaml.NewDecoder(&buf)
	dec.KnownFields(true)
	return dec.Decode(out)
}

var topLevelKeys = map[string]bool{
	"version": true, "name": true, "schedule": true, "stages": true,
}

// decodeStrict parses a workflow document, rejecting unknown top-level
// keys (to catch typos, per spec's "Unknown fields must be rejected"
// behavioral contract) and preserving the insertion order of the `stages`
// mapping, which yaml.v3's map-typed Unmarshal does not guarantee.
func decodeStrict(content []byte) (*WorkflowMarshall, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(content, &root); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	if len(root.Content) == 0 {
		return &WorkflowMarshall{}, nil
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("config document must be a mapping")
	}

	wm := &WorkflowMarshall{}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key := doc.Content[i].Value
		val := doc.Content[i+1]

		if !topLevelKeys[key] {
			return nil, fmt.Errorf("unknown top-level key %q", key)
		}

		switch key {
		case "version":
			if err := val.Decode(&wm.Version); err != nil {
				return nil, fmt.Errorf("decoding version: %w", err)
			}
		case "name":
			if err := val.Decode(&wm.Name); err != nil {
				return nil, fmt.Errorf("decoding name: %w", err)
			}
		case "schedule":
			if err := val.Decode(&wm.Schedule); err != nil {
				return nil, fmt.Errorf("decoding schedule: %w", err)
			}
		case "stages":
			stages, err := decodeStages(val)
			if err != nil {
				return nil, err
			}
			wm.Stages = stages
		}
	}

	return wm, nil
}

func decodeStages(node *yaml.Node) ([]StageMarshall, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("stages must be a mapping of stage name to step list")
	}

	var stages []StageMarshall
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		stepsNode := node.Content[i+1]
		if stepsNode.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("stage %q must be a list of steps", name)
		}

		var steps []StepMarshall
		for j, stepNode := range stepsNode.Content {
			var sm StepMarshall
			if err := strictDecode(stepNode, &sm); err != nil {
				return nil, fmt.Errorf("decoding stage %q step %d: %w", name, j, err)
			}
			steps = append(steps, sm)
		}
		stages = append(stages, StageMarshall{Name: name, Steps: steps})
	}

	return stages, nil
}

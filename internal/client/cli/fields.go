package cli

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/iudanet/docsync/internal/models"
)

// parseFields разбирает аргументы вида key=value.
// Значение читается как YAML-скаляр: true, 42, 1.5 и null получают свой тип,
// остальное остается строкой.
func parseFields(args []string) (models.Fields, error) {
	fields := make(models.Fields, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q, expected key=value", arg)
		}
		if models.IsReservedKey(key) {
			return nil, fmt.Errorf("field %q is reserved", key)
		}

		fields[key] = parseValue(raw)
	}
	return fields, nil
}

func parseValue(raw string) any {
	if strings.TrimSpace(raw) == "" {
		return raw
	}

	var node yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &node); err != nil {
		return raw
	}
	// Списки, объекты и невалидный YAML храним как строку
	if len(node.Content) != 1 || node.Content[0].Kind != yaml.ScalarNode {
		return raw
	}

	var value any
	if err := node.Content[0].Decode(&value); err != nil {
		return raw
	}
	return value
}

func defaultProfile(user string) models.Fields {
	return models.Fields{
		"displayName": user,
		"theme":       "light",
	}
}

package challenge

import "github.com/kotoba-lab/questcore/internal/schemas"

var listSchema = &schemas.Schema{
	Name: "questcore-challenge-list",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"success"},
		"properties": map[string]any{
			"success": map[string]any{"type": "boolean"},
			"message": map[string]any{"type": "string"},
			"challenges": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"challengeId", "mode", "category", "questionIds"},
					"properties": map[string]any{
						"challengeId": map[string]any{"type": "string", "minLength": 1},
						"mode":        map[string]any{"type": "string"},
						"category":    map[string]any{"type": "string", "minLength": 1},
						"questionIds": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "integer"},
						},
						"targetScore": map[string]any{"type": "integer"},
						"challenger": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"name": map[string]any{"type": "string"},
							},
						},
					},
				},
			},
		},
	},
}

var settingsSchema = &schemas.Schema{
	Name: "questcore-app-settings",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"success"},
		"properties": map[string]any{
			"success": map[string]any{"type": "boolean"},
			"message": map[string]any{"type": "string"},
			"settings": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"showLogoutButton": map[string]any{"type": "boolean"},
					"showResetButton":  map[string]any{"type": "boolean"},
				},
			},
		},
	},
}

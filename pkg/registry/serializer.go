package registry

import (
	"encoding/json"

	"github.com/mbraga/flowsmith/pkg/models"
)

// JSONSerializer renders the canonical wire format as indented JSON.
type JSONSerializer struct{}

func (JSONSerializer) ID() string { return "json" }

func (JSONSerializer) Priority() int { return 0 }

func (JSONSerializer) Format() string { return "json" }

func (JSONSerializer) Serialize(workflow *models.WorkflowJSON) ([]byte, error) {
	return json.MarshalIndent(workflow, "", "  ")
}

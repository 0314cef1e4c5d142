package testutil

import (
	"testing"

	"gorm.io/gorm"

	"github.com/taaslabs/taas-backend/scenario"
)

// CreateFixture creates a fixture record in the database.
func CreateFixture(t *testing.T, db *gorm.DB, model interface{}) {
	t.Helper()
	if err := db.Create(model).Error; err != nil {
		t.Fatalf("failed to create fixture: %v", err)
	}
}

// CreateFixtures creates multiple fixture records in the database.
func CreateFixtures(t *testing.T, db *gorm.DB, models ...interface{}) {
	for _, model := range models {
		CreateFixture(t, db, model)
	}
}

// SampleScenario returns a small valid scenario for tests.
func SampleScenario() scenario.Scenario {
	return scenario.Scenario{
		Name:        "Search flow",
		Description: "Searches the catalogue and checks results",
		Steps: []scenario.Step{
			{Action: scenario.ActionGoto, URL: "https://example.com"},
			{Action: scenario.ActionFill, Selector: "#search", Value: "books"},
			{Action: scenario.ActionClick, Selector: "button[type=submit]"},
			{Action: scenario.ActionExpect, Selector: ".results", Condition: scenario.ConditionToBeVisible},
		},
	}
}

package models

// Setting keys the domain consults. A missing key is a meaningful state:
// manager authority is unattainable until manager_role is configured.
const (
	SettingManagerRole         = "manager_role"
	SettingRefereeRole         = "referee_role"
	SettingResultsChannel      = "results_channel"
	SettingTransactionsChannel = "transactions_channel"
	SettingFixturesMessage     = "fixtures_message"
)

type Setting struct {
	Key   string `json:"key" db:"key"`
	Value string `json:"value" db:"value"`
}

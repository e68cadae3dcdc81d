package models

type Rule struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Description       *string     `json:"description"`
	Enabled           bool        `json:"enabled"`
	TriggerAccountKey string      `json:"trigger_account_key"`
	Conditions        []Condition `json:"conditions"`
	Actions           []Action    `json:"actions"`
	CreatedAt         int64       `json:"created_at"`
	UpdatedAt         int64       `json:"updated_at"`
}

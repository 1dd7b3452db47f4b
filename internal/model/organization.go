package model

type Organization struct {
	ID       int    `db:"id" json:"id"`
	UUID     string `db:"uuid" json:"uuid"`
	Name     string `db:"name" json:"name"`
	Features string `db:"features" json:"features"` // JSON blob of org-level config
}

package model

type User struct {
	ID           int    `db:"id" json:"id"`
	Email        string `db:"email" json:"email"`
	IsSuperadmin bool   `db:"is_superadmin" json:"is_superadmin"`
}

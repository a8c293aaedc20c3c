package model

// All lists every persisted model in dependency order, for migrations.
func All() []any {
	return []any{
		&Role{},
		&User{},
		&Category{},
		&Tag{},
		&Article{},
	}
}

package entity

// Models lists every persisted type in migration order.
func Models() []interface{} {
	return []interface{}{
		&Institution{},
		&User{},
		&Follow{},
		&ScientificField{},
		&Content{},
		&Like{},
		&Comment{},
	}
}

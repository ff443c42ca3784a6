package config

//go:generate go tool go-enum --marshal --names --values --nocase

// Whether program is allowed to enumerate locally installed fonts.
// ENUM(granted, denied)
type CatalogAccess string

//go:build !prod

package database

// GetDefaultDBPath keeps the development database next to the sources.
func GetDefaultDBPath() string {
	return dbFileName
}

func IsDevelopment() bool {
	return true
}

package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv layers env files in priority order: real OS env vars win,
// then .env.local, then .env (godotenv never overwrites a variable that
// is already set). Returns the files that were actually found.
func LoadDotEnv() []string {
	var found []string
	for _, name := range []string{".env.local", ".env"} {
		if _, err := os.Stat(name); err == nil {
			found = append(found, name)
		}
	}
	if len(found) > 0 {
		_ = godotenv.Load(found...)
	}
	return found
}

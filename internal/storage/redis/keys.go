package redis

import "fmt"

// keys builds Redis keys under a common prefix
type keys struct {
	prefix string
}

// player returns the key holding an account's profile as JSON
func (k keys) player(username string) string {
	return fmt.Sprintf("%s:player:%s", k.prefix, username)
}

// scores returns the sorted set of username -> score
func (k keys) scores() string {
	return fmt.Sprintf("%s:scores", k.prefix)
}

package redis

import (
	"fmt"

	"github.com/beantunes235/fantasyforge/internal/model"
)

// Key prefix for all content data
const keyPrefix = "forge"

// sequenceKey returns the INCR counter that hands out ids for an entity kind
func sequenceKey(kind string) string {
	return fmt.Sprintf("%s:seq:%s", keyPrefix, kind)
}

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%d", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> user id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// emailIndexKey returns the Redis key for the email -> user id index
func emailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", keyPrefix, email)
}

// worldKey returns the Redis key for a World
func worldKey(id model.WorldID) string {
	return fmt.Sprintf("%s:world:%d", keyPrefix, id)
}

// worldsIndexKey returns the ZSET of all world ids scored by id
func worldsIndexKey() string {
	return fmt.Sprintf("%s:idx:worlds", keyPrefix)
}

// childKey returns the Redis key for a creature or story
func childKey(kind string, id int64) string {
	return fmt.Sprintf("%s:%s:%d", keyPrefix, kind, id)
}

// childIndexKey returns the ZSET of all creature or story ids
func childIndexKey(kind string) string {
	return fmt.Sprintf("%s:idx:%ss", keyPrefix, kind)
}

// worldChildIndexKey returns the ZSET of creature or story ids attached to a world
func worldChildIndexKey(kind string, worldID model.WorldID) string {
	return fmt.Sprintf("%s:idx:world:%d:%ss", keyPrefix, worldID, kind)
}

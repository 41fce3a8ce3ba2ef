// Package keyspace defines the storage key scheme that scopes every stored
// object to one account. Keys are the only ownership mechanism: there is no
// separate access-control list.
//
// Layout under the bucket root:
//
//	<escaped-email>/user.json
//	<escaped-email>/personas/<persona-id>
package keyspace

import (
	"net/url"
	"strings"
)

const (
	userObjectName = "user.json"
	personaFolder  = "personas"
)

// EscapeEmail percent-encodes each '@'-delimited segment of email and joins
// the segments back with '@'. The '@' itself stays literal so keys remain
// readable in bucket listings.
func EscapeEmail(email string) string {
	segments := strings.Split(email, "@")
	for i, s := range segments {
		segments[i] = url.QueryEscape(s)
	}
	return strings.Join(segments, "@")
}

// UserKey returns the storage key of the account record for email.
func UserKey(email string) string {
	return EscapeEmail(email) + "/" + userObjectName
}

// PersonaPrefix returns the key prefix under which all of the account's
// personas live, including the trailing separator.
func PersonaPrefix(email string) string {
	return EscapeEmail(email) + "/" + personaFolder + "/"
}

// PersonaKey returns the storage key of one persona blob.
func PersonaKey(email, personaID string) string {
	return PersonaPrefix(email) + personaID
}

// PersonaID extracts the persona id (the trailing path segment) from a full
// storage key.
func PersonaID(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}

package remote

import (
	"fmt"

	"github.com/mcoot/pointsync/internal/model"
)

// Key prefix for all reward data
const keyPrefix = "pointsync"

// balanceKey returns the key holding an account's point balance.
// Its existence doubles as the migration receipt: an account that has ever
// received points has this key.
func balanceKey(id model.AccountID) string {
	return fmt.Sprintf("%s:balance:%s", keyPrefix, id)
}

// historyKey returns the key for an account's point ledger (list, newest first)
func historyKey(id model.AccountID) string {
	return fmt.Sprintf("%s:history:%s", keyPrefix, id)
}

// dailyCountKeyBase returns the day-less prefix of an account's play counter
// key. The day segment is appended server-side from the backend's own clock,
// so clients never pick the day a play counts against.
func dailyCountKeyBase(id model.AccountID) string {
	return fmt.Sprintf("%s:daily:%s", keyPrefix, id)
}

// dailyPlaysKeyBase returns the day-less prefix of an account's play records
// key, completed server-side like the counter key
func dailyPlaysKeyBase(id model.AccountID) string {
	return fmt.Sprintf("%s:plays:%s", keyPrefix, id)
}

// dailyCountKey returns the full key for an account's play counter on a
// given day
func dailyCountKey(id model.AccountID, dateKey string) string {
	return dailyCountKeyBase(id) + ":" + dateKey
}

// dailyPlaysKey returns the full key for an account's play records on a
// given day
func dailyPlaysKey(id model.AccountID, dateKey string) string {
	return dailyPlaysKeyBase(id) + ":" + dateKey
}

// accountKey returns the key for an account record
func accountKey(id model.AccountID) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, id)
}

// usernameIndexKey returns the key for the username -> account id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// brandsKey returns the key for the brand catalog
func brandsKey() string {
	return fmt.Sprintf("%s:brands", keyPrefix)
}

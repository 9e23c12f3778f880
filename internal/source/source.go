package source

import (
	"errors"
	"fmt"
)

// ConfigError indicates that required configuration, typically a
// credential, is missing after every lookup was tried.
type ConfigError struct {
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error (%s): %s", e.Key, e.Message)
}

// AuthError indicates that the mailbox rejected the login.
type AuthError struct {
	Username string
	Message  string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.Username, e.Message)
}

// SearchError indicates that the mailbox could not be selected or searched.
// Nothing useful can be reported without a search result, so callers treat
// it as fatal.
type SearchError struct {
	Folder string
	Err    error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("searching %s: %v", e.Folder, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

// FetchError indicates that a single message could not be fetched. Callers
// skip the message and continue.
type FetchError struct {
	ID  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching message %s: %v", e.ID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsConfigError reports whether err (or any error in its chain) is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IsSearchError reports whether err (or any error in its chain) is a SearchError.
func IsSearchError(err error) bool {
	var searchErr *SearchError
	return errors.As(err, &searchErr)
}

// IsFetchError reports whether err (or any error in its chain) is a FetchError.
func IsFetchError(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}

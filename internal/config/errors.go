package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrEmptyAPIBaseURL error if config api.baseurl is empty.
	ErrEmptyAPIBaseURL = errors.New("toml config api.baseurl can not be empty")

	// ErrUnknownSessionBackend error if config sessionstorage.backend is not supported.
	ErrUnknownSessionBackend = errors.New("toml config sessionstorage.backend is unknown")

	// ErrInvalidDefaultRole error if config ui.defaultcreaterole is not a role.
	ErrInvalidDefaultRole = errors.New("toml config ui.defaultcreaterole is not a valid role")
)

package bitbucket

import "errors"

var (
	// ErrMissingClientID is returned when the OAuth client ID is not provided.
	ErrMissingClientID = errors.New("bitbucket: missing client ID")

	// ErrMissingClientSecret is returned when the OAuth client secret is not provided.
	ErrMissingClientSecret = errors.New("bitbucket: missing client secret")

	// ErrMalformedJSON is returned by the parsers when a payload is not valid JSON
	// or does not have the expected shape.
	ErrMalformedJSON = errors.New("bitbucket: malformed json")

	// ErrParseProfile is returned when the user profile response cannot be decoded.
	ErrParseProfile = errors.New("bitbucket: failed to parse user profile")

	// ErrUnknownSchema is returned by ParseSchema for unsupported names.
	ErrUnknownSchema = errors.New("bitbucket: unknown profile schema")
)

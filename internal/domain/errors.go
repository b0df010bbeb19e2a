package domain

import "errors"

var (
	// ErrDomainInUse is returned by stores refusing to delete a domain that articles
	// or projects still reference.
	ErrDomainInUse = errors.New("domain has articles or projects")
	// ErrUnknownDomain is returned by stores when a record names a domain that does
	// not exist.
	ErrUnknownDomain = errors.New("unknown domain")
)

package printify

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks caller mistakes detected before any request is sent.
	ErrConfiguration = errors.New("printify: configuration error")
	ErrMissingShopID = fmt.Errorf("%w: no shop id was specified; pass one to the call or set a default with WithShopID", ErrConfiguration)

	ErrBadRequest = errors.New("printify: bad request")
	ErrForbidden  = errors.New("printify: forbidden")
	ErrServer     = errors.New("printify: server error")
	ErrAPI        = errors.New("printify: api error")
	ErrParse      = errors.New("printify: unable to parse response")
)

// Error is returned for every failed response. Use errors.Is against the
// sentinel errors above to branch on Kind.
type Error struct {
	Kind       error
	StatusCode int
	URL        string
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Kind }

func configError(msg string) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, msg)
}

func parseError(url string, err error) error {
	return &Error{Kind: ErrParse, URL: url, Message: err.Error()}
}

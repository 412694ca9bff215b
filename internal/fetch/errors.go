package fetch

import "fmt"

// FailureKind distinguishes the two ways content retrieval fails.
type FailureKind int

const (
	LocalReadFailure FailureKind = iota + 1
	RemoteFetchFailure
)

func (k FailureKind) String() string {
	switch k {
	case LocalReadFailure:
		return "local read failure"
	case RemoteFetchFailure:
		return "remote fetch failure"
	}
	return "fetch failure"
}

// FetchError is returned by the provider when content for one location could
// not be retrieved. It always names the failing location.
type FetchError struct {
	Kind     FailureKind
	Location string
	Err      error
}

func (e *FetchError) Error() string {
	verb := "cannot be fetched"
	if e.Kind == LocalReadFailure {
		verb = "cannot be read"
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", verb, e.Location)
	}
	return fmt.Sprintf("%s: %s: %v", verb, e.Location, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

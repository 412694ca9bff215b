package fetch

import "os"

// ReadLocal reads a local page fully into memory after applying the tilde
// policy to location.
func ReadLocal(location string, policy TildePolicy) (string, error) {
	b, err := os.ReadFile(LocalPath(location, policy))
	if err != nil {
		return "", &FetchError{Kind: LocalReadFailure, Location: location, Err: err}
	}
	return string(b), nil
}

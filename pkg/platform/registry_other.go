// © Ben Garrett https://github.com/bengarrett/remime

//go:build !windows

package platform

func readRegistry() ([]Association, error) {
	return nil, ErrUnsupported
}

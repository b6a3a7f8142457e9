// © Ben Garrett https://github.com/bengarrett/remime

//go:build windows

package platform

import (
	"strings"

	"golang.org/x/sys/windows/registry"
)

func readRegistry() ([]Association, error) {
	root, err := registry.OpenKey(registry.CLASSES_ROOT, "", registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return nil, err
	}
	defer root.Close()
	names, err := root.ReadSubKeyNames(-1)
	if err != nil {
		return nil, err
	}
	var assocs []Association
	for _, name := range names {
		if !strings.HasPrefix(name, ".") {
			continue
		}
		key, err := registry.OpenKey(registry.CLASSES_ROOT, name, registry.QUERY_VALUE)
		if err != nil {
			continue
		}
		val, _, err := key.GetStringValue("Content Type")
		key.Close()
		if err != nil {
			continue
		}
		assocs = append(assocs, Association{Ext: name[1:], Type: val})
	}
	return assocs, nil
}

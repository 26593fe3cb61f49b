package reanim

import (
	"encoding/xml"
	"fmt"
	"os"
)

// Parse decodes Reanim XML. Reanim files have no root element, so the content
// is wrapped in one before decoding.
func Parse(data []byte) (*ReanimXML, error) {
	wrapped := make([]byte, 0, len(data)+len("<reanim></reanim>"))
	wrapped = append(wrapped, "<reanim>"...)
	wrapped = append(wrapped, data...)
	wrapped = append(wrapped, "</reanim>"...)

	var rx ReanimXML
	if err := xml.Unmarshal(wrapped, &rx); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	return &rx, nil
}

// ParseFile reads and parses the Reanim file at path.
//
// Example:
//
//	rx, err := reanim.ParseFile("assets/reanim/PeaShooter.reanim")
//	if err != nil {
//	    log.Fatalf("Failed to parse reanim: %v", err)
//	}
//	fmt.Printf("Animation FPS: %d\n", rx.FPS)
func ParseFile(path string) (*ReanimXML, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reanim file '%s': %w", path, err)
	}
	rx, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("reanim file '%s': %w", path, err)
	}
	return rx, nil
}

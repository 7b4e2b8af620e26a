package ckl

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/FoxxDev-Collab/poam-tracker/internal/model"
)

// ParseCCIList reads the DISA CCI reference list (U_CCI_List.xml) and
// returns one entry per cci_item carrying the NIST SP 800-53 control
// indexes it references.
func ParseCCIList(path string) ([]model.CCIMapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CCI list: %w", err)
	}
	defer f.Close()

	mappings, err := DecodeCCIList(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse CCI list %s: %w", path, err)
	}
	return mappings, nil
}

// DecodeCCIList parses the CCI reference XML from a reader.
func DecodeCCIList(r io.Reader) ([]model.CCIMapping, error) {
	dec := xml.NewDecoder(r)

	var (
		mappings []model.CCIMapping
		current  *model.CCIMapping
		inRefs   bool
		element  string
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xml error: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			element = t.Name.Local
			switch element {
			case "cci_item":
				current = &model.CCIMapping{}
				for _, attr := range t.Attr {
					if attr.Name.Local == "id" {
						current.CCIID = attr.Value
						break
					}
				}
			case "references":
				inRefs = true
			case "reference":
				if inRefs && current != nil {
					addNISTReference(current, t.Attr)
				}
			}

		case xml.CharData:
			if current == nil {
				break
			}
			text := strings.TrimSpace(string(t))
			if text == "" {
				break
			}
			switch element {
			case "definition":
				current.Definition = text
				current.Title = definitionTitle(text)
			case "type":
				current.Type = text
			case "status":
				current.Status = text
			case "publishdate":
				current.PublishDate = text
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "cci_item":
				if current != nil && current.CCIID != "" {
					mappings = append(mappings, *current)
				}
				current = nil
			case "references":
				inRefs = false
			}
			element = ""
		}
	}

	return mappings, nil
}

// addNISTReference records the control index of an 800-53 reference,
// skipping other frameworks and duplicate indexes.
func addNISTReference(cci *model.CCIMapping, attrs []xml.Attr) {
	var title, index string
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "title":
			title = attr.Value
		case "index":
			index = strings.TrimSpace(attr.Value)
		}
	}
	if !strings.Contains(title, "NIST SP 800-53") || index == "" {
		return
	}
	for _, existing := range cci.NISTControls {
		if existing == index {
			return
		}
	}
	cci.NISTControls = append(cci.NISTControls, index)
}

// definitionTitle derives the short title shown in lists: the first
// sentence of the definition, capped for pathological entries.
func definitionTitle(definition string) string {
	if i := strings.IndexByte(definition, '.'); i > 0 {
		return definition[:i]
	}
	if len(definition) > 100 {
		return definition[:100]
	}
	return definition
}

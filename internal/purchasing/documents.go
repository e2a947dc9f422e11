package purchasing

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var labelCaser = cases.Title(language.English)

// DisplayLabel returns the label for a document requirement, deriving one
// from the canonical key when no explicit label is declared.
func (r DocRequirement) DisplayLabel() string {
	if r.Label != "" {
		return r.Label
	}
	return labelCaser.String(strings.ReplaceAll(r.Key, "_", " "))
}

// matches reports whether the uploaded document type fulfils this
// requirement slot, accepting any declared alias spelling.
func (r DocRequirement) matches(documentType string) bool {
	if documentType == r.Key {
		return true
	}
	for _, alias := range r.Aliases {
		if documentType == alias {
			return true
		}
	}
	return false
}

// CheckDocuments evaluates the document requirements for a target stage
// against the uploaded set. A requirement is satisfied iff at least one
// uploaded document matches both the stage and one of the requirement's
// accepted keys. Returns the labels of unsatisfied requirements in
// declaration order; empty means satisfied.
func CheckDocuments(stage Stage, reqs []DocRequirement, uploaded []UploadedDocument) []string {
	var missing []string
	for _, req := range reqs {
		found := false
		for _, doc := range uploaded {
			if doc.Stage == stage && req.matches(doc.DocumentType) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, req.DisplayLabel())
		}
	}
	return missing
}

// Package document classifies uploaded files and checks them against the
// upload limits.
package document

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"

	"github.com/infraflow-ai/infraflow/pkg/model"
)

var typeKeywords = []struct {
	docType model.DocumentType
	terms   []string
}{
	{model.DocumentTypeFeasibilityStudy, []string{"feasibility", "study", "assessment"}},
	{model.DocumentTypeFinancialModel, []string{"financial", "model", "fcf", "dcf"}},
	{model.DocumentTypeEnvironmentalImpact, []string{"environmental", "eia", "impact"}},
	{model.DocumentTypeTechnicalSpecification, []string{"technical", "specs", "specification"}},
	{model.DocumentTypeLegalAgreement, []string{"legal", "agreement", "contract"}},
	{model.DocumentTypeComplianceReport, []string{"compliance", "regulatory"}},
}

// DetectType guesses a document's type from keywords in its file name. The
// first matching group wins.
func DetectType(filename string) model.DocumentType {
	name := strings.ToLower(filepath.Base(filename))
	for _, tk := range typeKeywords {
		for _, term := range tk.terms {
			if strings.Contains(name, term) {
				return tk.docType
			}
		}
	}
	return model.DocumentTypeOther
}

// Limits are the upload constraints.
type Limits struct {
	MaxSize      int64
	AllowedTypes []string
}

// Extension returns the lowercased extension of name without the dot.
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// MimeType returns the registered MIME type for name, or
// application/octet-stream.
func MimeType(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// Validate reports every reason a file may not be uploaded.
func Validate(name string, size int64, limits Limits) error {
	var result *multierror.Error

	if strings.TrimSpace(name) == "" {
		result = multierror.Append(result, fmt.Errorf("file name is required"))
	} else if ext := Extension(name); !allowed(ext, limits.AllowedTypes) {
		result = multierror.Append(result, fmt.Errorf("file type %q is not allowed; accepted types: %s",
			ext, strings.Join(limits.AllowedTypes, ", ")))
	}

	if size <= 0 {
		result = multierror.Append(result, fmt.Errorf("file %q is empty", name))
	} else if limits.MaxSize > 0 && size > limits.MaxSize {
		result = multierror.Append(result, fmt.Errorf("file %q is %s, larger than the %s limit",
			name, humanize.IBytes(uint64(size)), humanize.IBytes(uint64(limits.MaxSize))))
	}

	return result.ErrorOrNil()
}

func allowed(ext string, types []string) bool {
	for _, t := range types {
		if strings.EqualFold(strings.TrimPrefix(t, "."), ext) {
			return true
		}
	}
	return false
}

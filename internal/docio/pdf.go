package docio

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// InspectPDF validates an uploaded PDF and returns its page count.
// Relaxed validation accepts the slightly off-spec files common in the wild.
func InspectPDF(data []byte) (int, error) {
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed

	if err := api.Validate(bytes.NewReader(data), conf); err != nil {
		return 0, fmt.Errorf("invalid pdf: %w", err)
	}
	pages, err := api.PageCount(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("pdf page count: %w", err)
	}
	return pages, nil
}

package suppliers

import (
	"fmt"
	"strings"
)

func (s *Service) validate(sup Supplier) error {
	if strings.TrimSpace(sup.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if sup.Rating < 0 || sup.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 0 and 5", ErrInvalid)
	}
	return nil
}

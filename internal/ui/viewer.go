package ui

import "sunit/internal/domain"

// Viewer displays stored run failures
type Viewer interface {
	View(results *domain.TestResultsOutput) error
}

package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"sunit/internal/domain"
)

func TestProgressBar_CountsResults(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressBar(&buf)

	p.RunStarted([]domain.SuiteDescriptor{{Tests: make([]domain.TestDescriptor, 3)}})
	p.TestFinished(domain.ResultRecord{Mode: domain.Simple})
	p.TestFinished(domain.ResultRecord{Mode: domain.Simple, Outcome: domain.Failure})
	p.TestFinished(domain.ResultRecord{Mode: domain.Parameterized, Successes: 2, Total: 2})
	p.RunFinished(domain.Summary{})

	succeeded, failed := p.Counts()
	assert.Equal(t, 2, succeeded)
	assert.Equal(t, 1, failed)
	assert.Contains(t, buf.String(), "Running tests")
}

func TestProgressBar_UpdateBeforeStart(t *testing.T) {
	p := NewProgressBar(&bytes.Buffer{})
	p.Update(1, 1)
	p.Finish()

	succeeded, failed := p.Counts()
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, failed)
}

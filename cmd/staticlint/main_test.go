package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzers(t *testing.T) {
	names := map[string]bool{}
	for _, a := range analyzers(ConfigData{Staticcheck: []string{"SA4006", "NOPE"}}) {
		names[a.Name] = true
	}

	assert.True(t, names["noosexit"])
	assert.True(t, names["nodefaulthttp"])
	assert.True(t, names["ineffassign"])
	assert.True(t, names["SA4006"])
	assert.False(t, names["NOPE"])
	assert.False(t, names["SA1019"])
}

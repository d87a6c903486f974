package program_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/freedomology/backend/internal/domain/program"
)

func TestForPillar(t *testing.T) {
	tests := []struct {
		pillar string
		code   string
	}{
		{"health", "H40"},
		{"Financial", "F40"},
		{" relationships ", "R40"},
		{"r40", "R40"},
	}
	for _, tt := range tests {
		p, ok := program.ForPillar(tt.pillar)
		assert.True(t, ok, tt.pillar)
		assert.Equal(t, tt.code, p.Code)
	}

	_, ok := program.ForPillar("spirituality")
	assert.False(t, ok)
}

func TestAll_ReturnsCopy(t *testing.T) {
	all := program.All()
	assert.Len(t, all, 3)

	all[0].Code = "changed"
	p, _ := program.ForPillar("health")
	assert.Equal(t, "H40", p.Code)
}

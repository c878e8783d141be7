package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/schema"
)

func TestModelsHaveDistinctTables(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Models() {
		tabler, ok := m.(schema.Tabler)
		if !assert.True(t, ok, "%T must name its table", m) {
			continue
		}
		name := tabler.TableName()
		assert.False(t, seen[name], "duplicate table %s", name)
		seen[name] = true
	}
	assert.Len(t, seen, 9)
	assert.NoError(t, Run(nil))
}

package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"order_history/internal/models"
)

func TestModelsCoversFetchLog(t *testing.T) {
	assert.Equal(t, []interface{}{&models.FetchLog{}}, Models())
}

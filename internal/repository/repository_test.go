package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%retry%", likePattern(" retry "))
	assert.Equal(t, `%100\%\_done\\%`, likePattern(`100%_done\`))
	assert.Equal(t, "%%", likePattern(""))
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "49.99", FormatPrice(4999))
	assert.Equal(t, "0.00", FormatPrice(0))
	assert.Equal(t, "0.05", FormatPrice(5))
	assert.Equal(t, "120.00", FormatPrice(12000))
	assert.Equal(t, "-1.50", FormatPrice(-150))
}

func TestLevelValid(t *testing.T) {
	assert.True(t, LevelBeginner.Valid())
	assert.True(t, LevelAdvanced.Valid())
	assert.False(t, Level("expert").Valid())
	assert.False(t, Level("").Valid())
}

func TestCourseVisibility(t *testing.T) {
	c := &Course{EducatorID: "edu-1"}

	assert.False(t, c.VisibleTo(""))
	assert.False(t, c.VisibleTo("stu-1"))
	assert.True(t, c.VisibleTo("edu-1"))
	assert.True(t, c.OwnedBy("edu-1"))
	assert.False(t, c.OwnedBy(""))

	c.IsPublished = true
	assert.True(t, c.VisibleTo(""))
	assert.True(t, c.VisibleTo("stu-1"))
}

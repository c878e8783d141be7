package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProductValidates(t *testing.T) {
	images := []Image{{URL: "https://cdn.example/rose.jpg"}}

	p, err := NewProduct("p-1", "  Red Rose  ", 150000, images)
	require.NoError(t, err)
	assert.Equal(t, "Red Rose", p.Name)
	assert.Equal(t, StatusActive, p.Status)
	assert.True(t, p.Purchasable())

	_, err = NewProduct("p-2", "", 1, images)
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = NewProduct("p-3", "Tulip", 0, images)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = NewProduct("p-4", "Tulip", 1, nil)
	assert.ErrorIs(t, err, ErrNoImages)

	_, err = NewProduct("p-5", "Tulip", 1, []Image{{URL: " "}})
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestPurchasable(t *testing.T) {
	p := &Product{Status: StatusActive}
	assert.True(t, p.Purchasable())
	p.Deleted = true
	assert.False(t, p.Purchasable())
	p.Deleted = false
	p.Status = StatusInactive
	assert.False(t, p.Purchasable())
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, s)

	s, err = ParseStatus("INACTIVE")
	require.NoError(t, err)
	assert.Equal(t, StatusInactive, s)

	_, err = ParseStatus("archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCloneIsDeep(t *testing.T) {
	p := &Product{Images: []Image{{URL: "a"}}, Sizes: []string{"S"}}
	c := p.Clone()
	c.Images[0].URL = "b"
	c.Sizes[0] = "L"
	assert.Equal(t, "a", p.Images[0].URL)
	assert.Equal(t, "S", p.Sizes[0])
}

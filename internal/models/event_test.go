package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventField(t *testing.T) {
	desc := "Team lunch"
	e := &Event{ID: 7, Name: "Lunch", Date: "25-12-2023", StartTime: "12:00", EndTime: "13:00",
		Street: "1 George St", Suburb: "Sydney", State: "NSW", PostCode: "2000", Description: &desc}

	for _, name := range ProjectableFields {
		_, ok := e.Field(name)
		assert.True(t, ok, name)
	}

	v, _ := e.Field("id")
	assert.Equal(t, int64(7), v)
	v, _ = e.Field("from")
	assert.Equal(t, "12:00", v)
	v, _ = e.Field("last_update")
	assert.Nil(t, v)

	_, ok := e.Field("location")
	assert.False(t, ok)
}

func TestEventAddress(t *testing.T) {
	e := &Event{Street: "1 George St", Suburb: "Sydney", State: "NSW", PostCode: "2000"}
	assert.Equal(t, "1 George St, Sydney, NSW, 2000", e.Address())

	e.Street = " "
	assert.Equal(t, "Sydney, NSW, 2000", e.Address())
}

func TestMetadataHasWeather(t *testing.T) {
	var m Metadata
	assert.False(t, m.HasWeather())

	h := "65%"
	m.Humidity = &h
	assert.True(t, m.HasWeather())
}

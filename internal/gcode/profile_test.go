package gcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetProfile(t *testing.T) {
	assert.Equal(t, "Grbl", GetProfile("Grbl").Name)
	assert.Equal(t, "Generic", GetProfile("does-not-exist").Name)
	assert.True(t, GetProfile("Mach3").IsBuiltIn)
}

func TestFindProfile_CustomFirst(t *testing.T) {
	custom := []Profile{{Name: "Grbl", Description: "patched"}, {Name: "Shop"}}
	assert.Equal(t, "patched", FindProfile("Grbl", custom).Description)
	assert.Equal(t, "Shop", FindProfile("Shop", custom).Name)
	assert.Equal(t, "LinuxCNC", FindProfile("LinuxCNC", custom).Name)
}

func TestProfileNames(t *testing.T) {
	assert.Equal(t, []string{"Grbl", "Mach3", "LinuxCNC", "Generic"}, ProfileNames())
}

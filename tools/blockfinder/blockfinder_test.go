package main

import (
	"testing"

	"github.com/maxsupermanhd/RegionTiles/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs("90, 4095,1")
	require.NoError(t, err)
	assert.Equal(t, map[uint16]bool{90: true, 4095: true, 1: true}, ids)
	_, err = parseIDs("4096")
	assert.Error(t, err)
	_, err = parseIDs("portal")
	assert.Error(t, err)
}

func TestFindInColumn(t *testing.T) {
	var col render.Column
	col.Reset()
	col.Populated[2] = true
	col.Sections[2].Blocks[100] = 90
	col.Sections[5].Blocks[0] = 90
	assert.Equal(t, map[int]uint16{2: 90}, findInColumn(&col, map[uint16]bool{90: true}))
	assert.Empty(t, findInColumn(&col, map[uint16]bool{49: true}))
}

package domain

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnit_EpisodeTitles(t *testing.T) {
	tests := []struct {
		name     string
		raw      RawUnit
		expected string
	}{
		{
			name:     "untitled episode",
			raw:      RawUnit{ID: 12, OrderValue: 3, UseType: "FR", Type: UnitEpisode},
			expected: "Episode 003",
		},
		{
			name:     "titled episode strips platform prefix",
			raw:      RawUnit{ID: 12, OrderValue: 3, Title: "#3 Prologue", UseType: "FR", Type: UnitEpisode},
			expected: "003 - Prologue",
		},
		{
			name:     "prefix only stripped at the start",
			raw:      RawUnit{ID: 12, OrderValue: 7, Title: "The #1 Hero", UseType: "FR", Type: UnitEpisode},
			expected: "007 - The #1 Hero",
		},
		{
			name:     "volume ignores title",
			raw:      RawUnit{ID: 12, Volume: 2, Title: "#2 whatever", UseType: "FR", Type: UnitVolume},
			expected: "Tome 02",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit, err := NewUnit(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, unit.Title())
		})
	}
}

func TestNewUnit_Numbering(t *testing.T) {
	episode, err := NewUnit(RawUnit{ID: 1, ProductID: 9957, OrderValue: 5, Volume: 99, UseType: "FR", Type: UnitEpisode})
	require.NoError(t, err)
	assert.Equal(t, 5, episode.Number())
	assert.Equal(t, SerieID(9957), episode.SerieID())

	volume, err := NewUnit(RawUnit{ID: 2, ProductID: 9957, OrderValue: 99, Volume: 5, UseType: "FR", Type: UnitVolume})
	require.NoError(t, err)
	assert.Equal(t, 5, volume.Number())
}

func TestNewUnit_BadAccessType(t *testing.T) {
	_, err := NewUnit(RawUnit{ID: 101, OrderValue: 1, UseType: "XX", Type: UnitEpisode})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unit 101")

	_, err = NewUnit(RawUnit{ID: 102, OrderValue: 1, UseType: "F", Type: UnitEpisode})
	assert.Error(t, err)
}

func TestParseAccessType(t *testing.T) {
	tests := []struct {
		code         string
		expected     AccessType
		downloadable bool
	}{
		{"FR", AccessFree, true},
		{"RD02", AccessTemporaryFree, true},
		{"WF", AccessWaitUntilFree, false},
		{"PM", AccessPaywalled, false},
		{"AB", AccessAlreadyOwned, true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			access, err := ParseAccessType(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, access)
			assert.Equal(t, tt.downloadable, access.Downloadable())
		})
	}
}

func TestUnit_ArchiveName(t *testing.T) {
	unit, err := NewUnit(RawUnit{ID: 1, OrderValue: 4, Title: "#4 What now?", UseType: "FR", Type: UnitEpisode})
	require.NoError(t, err)

	assert.Equal(t, "004 - What now_.cbz", unit.Filename())
	assert.Equal(t, "004 - What now_.pdf", unit.ArchiveName("pdf"))
}

func TestUnit_PresentAt(t *testing.T) {
	dir := t.TempDir()

	unit, err := NewUnit(RawUnit{ID: 1, OrderValue: 1, UseType: "FR", Type: UnitEpisode})
	require.NoError(t, err)

	assert.False(t, unit.PresentAt(dir, "cbz"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, unit.Filename()), []byte("zip"), 0o644))

	assert.True(t, unit.PresentAt(dir, "cbz"))
	assert.False(t, unit.PresentAt(dir, "pdf"))
}

func TestUnitType_UnmarshalJSON(t *testing.T) {
	var raw RawUnit
	require.NoError(t, json.Unmarshal([]byte(`{"id":5,"episode_type":"V"}`), &raw))
	assert.Equal(t, UnitVolume, raw.Type)

	require.NoError(t, json.Unmarshal([]byte(`{"id":5,"episode_type":"E"}`), &raw))
	assert.Equal(t, UnitEpisode, raw.Type)

	assert.Error(t, json.Unmarshal([]byte(`{"episode_type":"X"}`), &raw))
}

func TestParseIDs(t *testing.T) {
	serieID, err := ParseSerieID("9957")
	require.NoError(t, err)
	assert.Equal(t, "9957", serieID.String())

	_, err = ParseSerieID("abc")
	assert.Error(t, err)

	unitID, err := ParseUnitID("60875")
	require.NoError(t, err)
	assert.Equal(t, "60875", unitID.String())

	_, err = ParseUnitID("-1")
	assert.Error(t, err)
}

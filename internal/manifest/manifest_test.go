package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifestHeader = "source,target1,target2,method,category,type,race,gender,vid,path\n"

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "meta_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(manifestHeader+body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeManifest(t,
		"id00018,id00018,-,real,A,RealVideo-RealAudio,Asian,men,00027.mp4,FakeAVCeleb/RealVideo-RealAudio/Asian/men/id00018\n"+
			"id00076,id00292,-,faceswap,C,FakeVideo-RealAudio,Asian,men,00109_id00292_faceswap.mp4,FakeAVCeleb/FakeVideo-RealAudio/Asian/men/id00076\n")

	rows, err := Load(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "id00018", rows[0].Source)
	assert.Equal(t, "real", rows[0].Method)
	assert.Equal(t, "A", rows[0].Category)
	assert.Equal(t, "RealVideo-RealAudio", rows[0].Type)
	assert.Equal(t, "00027.mp4", rows[0].Vid)

	assert.Equal(t, "faceswap", rows[1].Method)
	assert.Equal(t, "FakeVideo-RealAudio", rows[1].Type)
}

func TestLoadRejectsWrongColumnCount(t *testing.T) {
	path := writeManifest(t, "id00018,id00018,-,real,A,RealVideo-RealAudio,Asian,men,00027.mp4\n")

	_, err := Load(path)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"))

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestRowPaths(t *testing.T) {
	row := Row{
		Vid:  "00027.mp4",
		Path: "FakeAVCeleb/RealVideo-RealAudio/Asian/men/id00018",
	}

	// The archive prefix "FakeAVCeleb" is dropped from media paths.
	assert.Equal(t, "RealVideo-RealAudio/Asian/men/id00018", row.MediaDir())
	assert.Equal(t,
		filepath.Join("/data", "RealVideo-RealAudio", "Asian", "men", "id00018", "00027.mp4"),
		row.VideoPath("/data"))
	assert.Equal(t,
		filepath.Join("/data", "RealVideo-RealAudio", "Asian", "men", "id00018", "00027.wav"),
		row.AudioPath("/data"))

	// The batch identifier keeps the manifest path untouched.
	assert.Equal(t, "FakeAVCeleb/RealVideo-RealAudio/Asian/men/id00018/00027.mp4", row.File())
}

func TestRowPathsWithoutPrefix(t *testing.T) {
	row := Row{Vid: "clip.mp4", Path: "flat"}
	assert.Equal(t, "", row.MediaDir())
	assert.Equal(t, filepath.Join("/data", "clip.mp4"), row.VideoPath("/data"))
}

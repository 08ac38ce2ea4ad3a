package dataset

import (
	"context"
	"fmt"
	"testing"

	"github.com/AirLabUR/MSOC/configs"
	"github.com/AirLabUR/MSOC/internal/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLoaderDataset(numRows int) *Dataset {
	rows := make([]manifest.Row, numRows)
	for i := range rows {
		rows[i] = manifest.Row{
			Category: "A",
			Type:     "RealVideo-RealAudio",
			Method:   "real",
			Vid:      fmt.Sprintf("%05d.mp4", i),
			Path:     "FakeAVCeleb/RealVideo-RealAudio/x/y/id00001",
		}
	}
	cfg := &configs.Config{
		Audio: configs.AudioConfig{SampleRate: 16000, StackOrder: 4},
		Video: configs.VideoConfig{ScaleFactor: 0.5, CropHeight: 100, CropWidth: 100, ImageStd: 1},
	}
	return NewDataset(SubsetTrain, "/data", rows, cfg, nil)
}

func TestLoaderLen(t *testing.T) {
	ds := testLoaderDataset(100)
	cfg := configs.LoaderConfig{BatchSize: 32, NumWorkers: 2, MaxSampleSize: 500}
	det := DeterminismContext{BaseSeed: 42}

	tests := []struct {
		name        string
		take        int
		wantLen     int
		wantBatches int
	}{
		{"uncapped", 0, 100, 4},
		{"capped below size", 10, 10, 1},
		{"cap above size ignored", 500, 100, 4},
		{"cap on batch boundary", 64, 64, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewLoader(ds, cfg, det, true, tt.take, nil)
			assert.Equal(t, tt.wantLen, loader.Len())
			assert.Equal(t, tt.wantBatches, loader.NumBatches())
		})
	}
}

func TestLoaderEmptyDatasetNoBatches(t *testing.T) {
	loader := NewLoader(testLoaderDataset(0), configs.LoaderConfig{BatchSize: 32}, DeterminismContext{BaseSeed: 42}, true, 0, nil)
	assert.Equal(t, 0, loader.NumBatches())

	calls := 0
	err := loader.ForEachBatch(context.Background(), 0, func(*Batch) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, calls)
}

func TestLoaderHonorsContextCancellation(t *testing.T) {
	loader := NewLoader(testLoaderDataset(100), configs.LoaderConfig{BatchSize: 32, NumWorkers: 2}, DeterminismContext{BaseSeed: 42}, true, 0, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := loader.ForEachBatch(ctx, 0, func(*Batch) error {
		t.Fatal("batch delivered on a cancelled context")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

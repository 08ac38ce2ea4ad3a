package configs

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	return &Config{
		Data: DataConfig{
			Root:        "/data/FakeAVCeleb",
			Manifest:    "meta_data.csv",
			DatasetType: "new",
			Seed:        42,
		},
		Loader: LoaderConfig{
			BatchSize:     32,
			NumWorkers:    4,
			MaxSampleSize: 500,
		},
		Audio: AudioConfig{
			SampleRate: 16000,
			StackOrder: 4,
		},
		Video: VideoConfig{
			ScaleFactor: 0.5,
			ImageStd:    0.165,
		},
	}
}

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, ValidateConfig(validTestConfig()))
}

func TestValidateConfigRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing root", func(c *Config) { c.Data.Root = "" }},
		{"unknown dataset type", func(c *Config) { c.Data.DatasetType = "bogus" }},
		{"original without fold file", func(c *Config) { c.Data.DatasetType = "original"; c.Data.TrainFold = "" }},
		{"zero batch size", func(c *Config) { c.Loader.BatchSize = 0 }},
		{"negative workers", func(c *Config) { c.Loader.NumWorkers = -1 }},
		{"zero max sample size", func(c *Config) { c.Loader.MaxSampleSize = 0 }},
		{"zero sample rate", func(c *Config) { c.Audio.SampleRate = 0 }},
		{"zero stack order", func(c *Config) { c.Audio.StackOrder = 0 }},
		{"zero scale factor", func(c *Config) { c.Video.ScaleFactor = 0 }},
		{"zero image std", func(c *Config) { c.Video.ImageStd = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)
			assert.Error(t, ValidateConfig(cfg))
		})
	}
}

func TestValidateConfigOriginalWithFoldFile(t *testing.T) {
	cfg := validTestConfig()
	cfg.Data.DatasetType = "original"
	cfg.Data.TrainFold = "folds/train_1.txt"
	assert.NoError(t, ValidateConfig(cfg))
}

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := &Config{}
	require.NoError(t, v.Unmarshal(cfg))

	assert.Equal(t, "meta_data.csv", cfg.Data.Manifest)
	assert.Equal(t, "new", cfg.Data.DatasetType)
	assert.Equal(t, int64(42), cfg.Data.Seed)
	assert.Equal(t, 32, cfg.Loader.BatchSize)
	assert.Equal(t, 500, cfg.Loader.MaxSampleSize)
	assert.Equal(t, 16000, cfg.Audio.SampleRate)
	assert.Equal(t, 26, cfg.Audio.NumFilters)
	assert.Equal(t, 4, cfg.Audio.StackOrder)
	assert.Equal(t, 0.5, cfg.Video.ScaleFactor)
	assert.Equal(t, 100, cfg.Video.CropHeight)
	assert.InDelta(t, 0.421, cfg.Video.ImageMean, 1e-9)
	assert.InDelta(t, 0.165, cfg.Video.ImageStd, 1e-9)
}

func TestSetDefaultsDoesNotOverrideExplicitValues(t *testing.T) {
	v := viper.New()
	v.Set("loader.batch_size", 8)
	v.Set("data.dataset_type", "original")
	setDefaults(v)

	assert.Equal(t, 8, v.GetInt("loader.batch_size"))
	assert.Equal(t, "original", v.GetString("data.dataset_type"))
}

package configs

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config represents the full pipeline configuration
type Config struct {
	// Application settings
	Verbose  bool   `mapstructure:"verbose"`
	LogLevel string `mapstructure:"log_level"`

	// Dataset location and partition policy
	Data DataConfig `mapstructure:"data"`

	// Batch assembly and worker pool
	Loader LoaderConfig `mapstructure:"loader"`

	// Acoustic frontend
	Audio AudioConfig `mapstructure:"audio"`

	// Visual frontend
	Video VideoConfig `mapstructure:"video"`
}

// DataConfig locates the dataset and selects the partition policy
type DataConfig struct {
	Root         string `mapstructure:"root"`
	Manifest     string `mapstructure:"manifest"`
	TrainFold    string `mapstructure:"train_fold"`
	DatasetType  string `mapstructure:"dataset_type"`
	Augmentation bool   `mapstructure:"augmentation"`
	Seed         int64  `mapstructure:"seed"`
	TakeTrain    int    `mapstructure:"take_train"`
	TakeVal      int    `mapstructure:"take_val"`
	TakeTest     int    `mapstructure:"take_test"`
}

// LoaderConfig contains batch assembly settings
type LoaderConfig struct {
	BatchSize     int  `mapstructure:"batch_size"`
	NumWorkers    int  `mapstructure:"num_workers"`
	MaxSampleSize int  `mapstructure:"max_sample_size"`
	PadAudio      bool `mapstructure:"pad_audio"`
	RandomCrop    bool `mapstructure:"random_crop"`
}

// AudioConfig contains acoustic feature settings
type AudioConfig struct {
	SampleRate       int     `mapstructure:"sample_rate"`
	WindowLength     float64 `mapstructure:"window_length"`
	WindowStep       float64 `mapstructure:"window_step"`
	NumFilters       int     `mapstructure:"num_filters"`
	FFTSize          int     `mapstructure:"fft_size"`
	Preemphasis      float64 `mapstructure:"preemphasis"`
	WindowFunction   string  `mapstructure:"window_function"`
	StackOrder       int     `mapstructure:"stack_order"`
	MaxShiftFraction float64 `mapstructure:"max_shift_fraction"`
}

// VideoConfig contains visual feature settings
type VideoConfig struct {
	ScaleFactor     float64 `mapstructure:"scale_factor"`
	CropHeight      int     `mapstructure:"crop_height"`
	CropWidth       int     `mapstructure:"crop_width"`
	ImageMean       float64 `mapstructure:"image_mean"`
	ImageStd        float64 `mapstructure:"image_std"`
	FlipProbability float64 `mapstructure:"flip_probability"`
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	setDefaults(viper.GetViper())

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	if config.Data.Root == "" {
		return fmt.Errorf("dataset root must be set")
	}

	switch config.Data.DatasetType {
	case "original":
		if config.Data.TrainFold == "" {
			return fmt.Errorf(`dataset type "original" requires a train fold file`)
		}
	case "new":
	default:
		return fmt.Errorf("dataset type must be %q or %q, got %q", "original", "new", config.Data.DatasetType)
	}

	if config.Loader.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}

	if config.Loader.NumWorkers < 0 {
		return fmt.Errorf("worker count cannot be negative")
	}

	if config.Loader.MaxSampleSize <= 0 {
		return fmt.Errorf("max sample size must be positive")
	}

	if config.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio sample rate must be positive")
	}

	if config.Audio.StackOrder < 1 {
		return fmt.Errorf("audio stack order must be at least 1")
	}

	if config.Video.ScaleFactor <= 0 {
		return fmt.Errorf("video scale factor must be positive")
	}

	if config.Video.ImageStd == 0 {
		return fmt.Errorf("image std cannot be zero")
	}

	return nil
}

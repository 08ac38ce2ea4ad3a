package configs

import (
	"github.com/spf13/viper"
)

// setDefaults sets default configuration values for all components
func setDefaults(v *viper.Viper) {
	// Application defaults
	if !v.IsSet("verbose") {
		v.Set("verbose", false)
	}
	if !v.IsSet("log_level") {
		v.Set("log_level", "info")
	}

	// Dataset defaults
	if !v.IsSet("data.manifest") {
		v.Set("data.manifest", "meta_data.csv")
	}
	if !v.IsSet("data.dataset_type") {
		v.Set("data.dataset_type", "new")
	}
	if !v.IsSet("data.augmentation") {
		v.Set("data.augmentation", false)
	}
	if !v.IsSet("data.seed") {
		v.Set("data.seed", 42)
	}

	// Loader defaults
	if !v.IsSet("loader.batch_size") {
		v.Set("loader.batch_size", 32)
	}
	if !v.IsSet("loader.num_workers") {
		v.Set("loader.num_workers", 4)
	}
	if !v.IsSet("loader.max_sample_size") {
		v.Set("loader.max_sample_size", 500)
	}
	if !v.IsSet("loader.pad_audio") {
		v.Set("loader.pad_audio", false)
	}
	if !v.IsSet("loader.random_crop") {
		v.Set("loader.random_crop", false)
	}

	// Acoustic frontend defaults (16 kHz speech filterbank, 4x stacking
	// to reach the video frame rate)
	if !v.IsSet("audio.sample_rate") {
		v.Set("audio.sample_rate", 16000)
	}
	if !v.IsSet("audio.window_length") {
		v.Set("audio.window_length", 0.025)
	}
	if !v.IsSet("audio.window_step") {
		v.Set("audio.window_step", 0.01)
	}
	if !v.IsSet("audio.num_filters") {
		v.Set("audio.num_filters", 26)
	}
	if !v.IsSet("audio.fft_size") {
		v.Set("audio.fft_size", 512)
	}
	if !v.IsSet("audio.preemphasis") {
		v.Set("audio.preemphasis", 0.97)
	}
	if !v.IsSet("audio.window_function") {
		v.Set("audio.window_function", "rectangular")
	}
	if !v.IsSet("audio.stack_order") {
		v.Set("audio.stack_order", 4)
	}
	if !v.IsSet("audio.max_shift_fraction") {
		v.Set("audio.max_shift_fraction", 0.1)
	}

	// Visual frontend defaults
	if !v.IsSet("video.scale_factor") {
		v.Set("video.scale_factor", 0.5)
	}
	if !v.IsSet("video.crop_height") {
		v.Set("video.crop_height", 100)
	}
	if !v.IsSet("video.crop_width") {
		v.Set("video.crop_width", 100)
	}
	if !v.IsSet("video.image_mean") {
		v.Set("video.image_mean", 0.421)
	}
	if !v.IsSet("video.image_std") {
		v.Set("video.image_std", 0.165)
	}
	if !v.IsSet("video.flip_probability") {
		v.Set("video.flip_probability", 0.5)
	}
}

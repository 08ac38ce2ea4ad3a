package dataset

import (
	"strings"

	"github.com/AirLabUR/MSOC/internal/manifest"
)

// Labels holds the six supervision views derived from one manifest row
type Labels struct {
	Video      int64 `json:"v_label"`  // 1 iff the video track is genuine
	Audio      int64 `json:"a_label"`  // 1 iff the audio track is genuine
	Combined   int64 `json:"c_label"`  // 1 iff both tracks are genuine
	Method     int64 `json:"m_label"`  // 1 iff no manipulation method was applied
	CrossModal int64 `json:"mm_label"` // 4-way class over which modalities are manipulated
	Subgroup   int64 `json:"s_label"`  // fake-audio-like subgroup indicator
}

// crossModalRules map type substrings to the 4-way class. Evaluated top to
// bottom, first match wins; anything unmatched is the fake/fake class.
var crossModalRules = []struct {
	substr string
	class  int64
}{
	{"RealVideo-RealAudio", 0},
	{"FakeVideo-RealAudio", 1},
	{"RealVideo-FakeAudio", 2},
}

const crossModalBothFake int64 = 3

// DeriveLabels computes every label view from the manifest row. A sample
// whose waveform was augmented is forced into the fake-audio-like subgroup
// regardless of its true category.
func DeriveLabels(row manifest.Row, wasAugmented bool) Labels {
	videoReal := strings.Contains(row.Type, "RealVideo")
	audioReal := strings.Contains(row.Type, "RealAudio")

	labels := Labels{
		Video:      boolLabel(videoReal),
		Audio:      boolLabel(audioReal),
		Combined:   boolLabel(videoReal && audioReal),
		Method:     boolLabel(row.Method == "real"),
		CrossModal: crossModalBothFake,
		Subgroup:   1,
	}

	for _, rule := range crossModalRules {
		if strings.Contains(row.Type, rule.substr) {
			labels.CrossModal = rule.class
			break
		}
	}

	if row.Category == "B" || wasAugmented {
		labels.Subgroup = 0
	}

	return labels
}

func boolLabel(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
